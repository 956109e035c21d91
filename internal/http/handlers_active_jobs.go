package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
	"github.com/RikVoorhaar/routing-game-sub002/internal/service"
)

// ActiveJobManager is the assignment lifecycle surface the handlers need.
// The Authorize methods gate every mutation on ownership of the employee
// behind the assignment.
type ActiveJobManager interface {
	Assign(ctx context.Context, employeeID, jobID string) (*model.ActiveJob, error)
	Start(ctx context.Context, activeJobID string) (*model.ActiveJob, error)
	Cancel(ctx context.Context, activeJobID string) error
	ListByGameState(ctx context.Context, gameStateID string) ([]*model.ActiveJob, error)
	AuthorizeEmployee(ctx context.Context, employeeID, playerID string) error
	AuthorizeActiveJob(ctx context.Context, activeJobID, playerID string) error
}

// Completer settles finished assignments.
type Completer interface {
	Complete(ctx context.Context, activeJobID string, params service.CompleteParams) (*service.CompletionResult, error)
	CompleteAll(ctx context.Context, gameStateID string) (*service.BatchResult, error)
}

// ActiveJobHandlers provides HTTP handlers for the assignment lifecycle.
type ActiveJobHandlers struct {
	Jobs        ActiveJobManager
	Completions Completer
	States      StateReader
	Logger      *slog.Logger
}

// Assign handles POST /api/employees/{id}/active-job.
func (h *ActiveJobHandlers) Assign(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}

	var req struct {
		JobID string `json:"job_id"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.JobID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_request",
			Err:     errors.New("job_id is required"),
		})
		return
	}

	employeeID := r.PathValue("id")
	if err := h.Jobs.AuthorizeEmployee(r.Context(), employeeID, playerID); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	active, err := h.Jobs.Assign(r.Context(), employeeID, req.JobID)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, active)
}

// Start handles POST /api/active-jobs/{id}/start.
func (h *ActiveJobHandlers) Start(w http.ResponseWriter, r *http.Request) {
	activeJobID, ok := h.authorizeActiveJob(w, r)
	if !ok {
		return
	}

	active, err := h.Jobs.Start(r.Context(), activeJobID)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, active)
}

// authorizeActiveJob resolves the {id} path value and verifies the caller
// owns the assignment. A false result means the response is already written.
func (h *ActiveJobHandlers) authorizeActiveJob(w http.ResponseWriter, r *http.Request) (string, bool) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return "", false
	}
	activeJobID := r.PathValue("id")
	if err := h.Jobs.AuthorizeActiveJob(r.Context(), activeJobID, playerID); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return "", false
	}
	return activeJobID, true
}

// Complete handles POST /api/active-jobs/{id}/complete. The body is
// optional; {"force": true} bypasses the travel-time gate.
func (h *ActiveJobHandlers) Complete(w http.ResponseWriter, r *http.Request) {
	activeJobID, ok := h.authorizeActiveJob(w, r)
	if !ok {
		return
	}

	var req struct {
		Force bool `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return
	}

	result, err := h.Completions.Complete(r.Context(), activeJobID, service.CompleteParams{
		Force: req.Force,
	})
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// Cancel handles DELETE /api/active-jobs/{id}.
func (h *ActiveJobHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	activeJobID, ok := h.authorizeActiveJob(w, r)
	if !ok {
		return
	}

	if err := h.Jobs.Cancel(r.Context(), activeJobID); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByGameState handles GET /api/game-states/{id}/active-jobs.
func (h *ActiveJobHandlers) ListByGameState(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}
	gameStateID := r.PathValue("id")
	if _, err := h.States.Get(r.Context(), gameStateID, playerID); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	actives, err := h.Jobs.ListByGameState(r.Context(), gameStateID)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"active_jobs": actives})
}

// CompleteAll handles POST /api/game-states/{id}/complete-all.
func (h *ActiveJobHandlers) CompleteAll(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}
	gameStateID := r.PathValue("id")
	if _, err := h.States.Get(r.Context(), gameStateID, playerID); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	result, err := h.Completions.CompleteAll(r.Context(), gameStateID)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
