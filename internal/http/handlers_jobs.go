// Package httpx provides the HTTP surface of the routing game API.
package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// JobQuerier is the job read surface the handlers need.
type JobQuerier interface {
	JobsInTile(ctx context.Context, tile geo.Tile, limit int) ([]*model.Job, error)
	NearestJobsForEmployee(ctx context.Context, employeeID string, tier, limit int) ([]*model.Job, error)
}

// JobHandlers provides HTTP handlers for spatial job queries.
type JobHandlers struct {
	Svc    JobQuerier
	Logger *slog.Logger
}

// TileJobs handles GET /api/jobs/tile/{z}/{x}/{y}.
func (h *JobHandlers) TileJobs(w http.ResponseWriter, r *http.Request) {
	tile, ok := parseTilePath(w, r)
	if !ok {
		return
	}

	jobs, err := h.Svc.JobsInTile(r.Context(), tile, parseIntQuery(r, "limit", 0))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// NearestJobs handles GET /api/employees/{id}/jobs/nearest.
func (h *JobHandlers) NearestJobs(w http.ResponseWriter, r *http.Request) {
	employeeID := r.PathValue("id")
	tier := parseIntQuery(r, "tier", 1)
	limit := parseIntQuery(r, "limit", 0)

	jobs, err := h.Svc.NearestJobsForEmployee(r.Context(), employeeID, tier, limit)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func parseTilePath(w http.ResponseWriter, r *http.Request) (geo.Tile, bool) {
	z, errZ := strconv.Atoi(r.PathValue("z"))
	x, errX := strconv.Atoi(r.PathValue("x"))
	y, errY := strconv.Atoi(r.PathValue("y"))
	if errZ != nil || errX != nil || errY != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("tile coordinates must be integers"),
		})
		return geo.Tile{}, false
	}
	return geo.Tile{X: x, Y: y, Z: z}, true
}
