package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// StateReader serves ownership-checked game state reads.
type StateReader interface {
	Get(ctx context.Context, gameStateID, playerID string) (*model.GameState, error)
	ListEmployees(ctx context.Context, gameStateID, playerID string) ([]*model.Employee, error)
}

// Purchaser executes upgrade purchases and serves the catalog.
type Purchaser interface {
	Purchase(ctx context.Context, gameStateID, playerID, upgradeID string) (*model.GameState, error)
	Catalog() []*model.Upgrade
}

// GameStateHandlers provides HTTP handlers for game state reads and upgrade
// purchases.
type GameStateHandlers struct {
	States    StateReader
	Purchases Purchaser
	Logger    *slog.Logger
}

// Get handles GET /api/game-states/{id}.
func (h *GameStateHandlers) Get(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}

	gs, err := h.States.Get(r.Context(), r.PathValue("id"), playerID)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, gs)
}

// Employees handles GET /api/game-states/{id}/employees.
func (h *GameStateHandlers) Employees(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}

	employees, err := h.States.ListEmployees(r.Context(), r.PathValue("id"), playerID)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"employees": employees})
}

// Catalog handles GET /api/upgrades.
func (h *GameStateHandlers) Catalog(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"upgrades": h.Purchases.Catalog()})
}

// Purchase handles POST /api/game-states/{id}/upgrades.
func (h *GameStateHandlers) Purchase(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}

	var req struct {
		UpgradeID string `json:"upgrade_id"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.UpgradeID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_request",
			Err:     errors.New("upgrade_id is required"),
		})
		return
	}

	gs, err := h.Purchases.Purchase(r.Context(), r.PathValue("id"), playerID, req.UpgradeID)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, gs)
}
