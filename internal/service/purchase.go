package service

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/upgrade"
)

// PurchaseServiceOptions groups dependencies for PurchaseService.
type PurchaseServiceOptions struct {
	GameStates core.GameStateRepository
	Catalog    *upgrade.Catalog
	Logger     *slog.Logger
}

// PurchaseService validates and executes upgrade purchases. Validation order
// is fixed: ownership, catalog membership, duplicate, prerequisites and level
// gate, funds. The debit itself is one guarded UPDATE, so two racing
// purchases of the same upgrade settle at the database and the loser gets
// the same taxonomy error a sequential attempt would.
type PurchaseService struct {
	gameStates core.GameStateRepository
	catalog    *upgrade.Catalog
	logger     *slog.Logger
}

// NewPurchaseService constructs a new PurchaseService.
func NewPurchaseService(opts PurchaseServiceOptions) *PurchaseService {
	if opts.GameStates == nil {
		panic("GameStateRepository is required")
	}
	if opts.Catalog == nil {
		panic("upgrade catalog is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &PurchaseService{
		gameStates: opts.GameStates,
		catalog:    opts.Catalog,
		logger:     opts.Logger.With("component", "purchase"),
	}
}

// Catalog exposes the full upgrade list for the read-only catalog endpoint.
func (s *PurchaseService) Catalog() []*model.Upgrade {
	return s.catalog.All()
}

// Purchase buys an upgrade for the player's game state.
func (s *PurchaseService) Purchase(
	ctx context.Context,
	gameStateID, playerID, upgradeID string,
) (*model.GameState, error) {
	gs, err := s.gameStates.GetByID(ctx, gameStateID)
	if err != nil {
		return nil, err
	}
	if gs.PlayerID != playerID {
		return nil, apperrors.AccessDenied("game state belongs to another player")
	}

	up := s.catalog.Get(upgradeID)
	if up == nil {
		return nil, apperrors.NotFoundf("upgrade %s not found", upgradeID)
	}
	if gs.HasUpgrade(up.ID) {
		return nil, apperrors.Conflictf("upgrade %s already purchased", up.ID)
	}

	if missing := s.catalog.MissingPrerequisites(up.ID, gs.HasUpgrade); len(missing) > 0 {
		return nil, apperrors.RequirementsNotMetf(
			"upgrade %s requires %s", up.ID, strings.Join(missing, ", "))
	}
	if total := gs.TotalXP(); total < up.MinTotalXP {
		return nil, apperrors.RequirementsNotMetf(
			"upgrade %s requires %d total XP, have %d", up.ID, up.MinTotalXP, total)
	}
	if gs.Money < up.Cost {
		return nil, apperrors.InsufficientFundsf(
			"upgrade %s costs %.2f, have %.2f", up.ID, up.Cost, gs.Money)
	}

	updated, ok, err := s.gameStates.PurchaseUpgrade(ctx, gs.ID, up.ID, up.Cost)
	if err != nil {
		return nil, err
	}
	if !ok {
		// a guard failed under our feet; re-read to report the precise cause
		return nil, s.classifyGuardFailure(ctx, gs.ID, up)
	}

	s.logger.InfoContext(ctx, "upgrade purchased",
		"game_state_id", gs.ID, "upgrade_id", up.ID, "cost", up.Cost)
	return updated, nil
}

func (s *PurchaseService) classifyGuardFailure(
	ctx context.Context,
	gameStateID string,
	up *model.Upgrade,
) error {
	current, err := s.gameStates.GetByID(ctx, gameStateID)
	if err != nil {
		return err
	}
	if current.HasUpgrade(up.ID) {
		return apperrors.Conflictf("upgrade %s already purchased", up.ID)
	}
	if current.Money < up.Cost {
		return apperrors.InsufficientFundsf(
			"upgrade %s costs %.2f, have %.2f", up.ID, up.Cost, current.Money)
	}
	return apperrors.Conflictf("purchase of %s raced with a concurrent write", up.ID)
}
