package service

import (
	"context"
	"log/slog"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// GameStateServiceOptions groups dependencies for GameStateService.
type GameStateServiceOptions struct {
	GameStates core.GameStateRepository
	Employees  core.EmployeeRepository
	Logger     *slog.Logger
}

// GameStateService serves player-facing reads of the economy record and its
// employees, enforcing that players only see their own state.
type GameStateService struct {
	gameStates core.GameStateRepository
	employees  core.EmployeeRepository
	logger     *slog.Logger
}

// NewGameStateService constructs a new GameStateService.
func NewGameStateService(opts GameStateServiceOptions) *GameStateService {
	if opts.GameStates == nil {
		panic("GameStateRepository is required")
	}
	if opts.Employees == nil {
		panic("EmployeeRepository is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &GameStateService{
		gameStates: opts.GameStates,
		employees:  opts.Employees,
		logger:     opts.Logger,
	}
}

// Get returns the game state if the requesting player owns it.
func (s *GameStateService) Get(ctx context.Context, gameStateID, playerID string) (*model.GameState, error) {
	gs, err := s.gameStates.GetByID(ctx, gameStateID)
	if err != nil {
		return nil, err
	}
	if gs.PlayerID != playerID {
		return nil, apperrors.AccessDenied("game state belongs to another player")
	}
	return gs, nil
}

// ListEmployees returns the game state's employees after an ownership check.
func (s *GameStateService) ListEmployees(
	ctx context.Context,
	gameStateID, playerID string,
) ([]*model.Employee, error) {
	if _, err := s.Get(ctx, gameStateID, playerID); err != nil {
		return nil, err
	}
	return s.employees.ListByGameState(ctx, gameStateID)
}
