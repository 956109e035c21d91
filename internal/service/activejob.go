package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
	"github.com/RikVoorhaar/routing-game-sub002/internal/eligibility"
)

// ActiveJobRepos groups the repositories the active-job lifecycle touches.
type ActiveJobRepos struct {
	GameStates core.GameStateRepository
	Employees  core.EmployeeRepository
	Jobs       core.JobRepository
	ActiveJobs core.ActiveJobRepository
}

// ActiveJobServiceOptions groups dependencies for ActiveJobService.
type ActiveJobServiceOptions struct {
	Repos       ActiveJobRepos
	Eligibility *eligibility.Checker
	Routes      *RoutePlanService
	Logger      *slog.Logger
}

// ActiveJobService drives the assignment lifecycle: assign, start, cancel.
// Completion lives in CompletionService because it crosses into the economy
// record.
type ActiveJobService struct {
	gameStates core.GameStateRepository
	employees  core.EmployeeRepository
	jobs       core.JobRepository
	activeJobs core.ActiveJobRepository
	checker    *eligibility.Checker
	routes     *RoutePlanService
	logger     *slog.Logger
	now        func() time.Time
}

// NewActiveJobService constructs a new ActiveJobService.
func NewActiveJobService(opts ActiveJobServiceOptions) *ActiveJobService {
	r := opts.Repos
	if r.GameStates == nil || r.Employees == nil || r.Jobs == nil || r.ActiveJobs == nil {
		panic("game state, employee, job and active-job repositories are required")
	}
	if opts.Routes == nil {
		panic("RoutePlanService is required")
	}
	if opts.Eligibility == nil {
		opts.Eligibility = eligibility.NewChecker(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &ActiveJobService{
		gameStates: opts.Repos.GameStates,
		employees:  opts.Repos.Employees,
		jobs:       opts.Repos.Jobs,
		activeJobs: opts.Repos.ActiveJobs,
		checker:    opts.Eligibility,
		routes:     opts.Routes,
		logger:     opts.Logger.With("component", "active_job"),
		now:        time.Now,
	}
}

// Assign creates an active job for the employee. Route planning runs before
// anything is written: if the planner cannot produce a route the assignment
// fails closed and no record exists. A concurrent assignment for the same
// employee loses the unique-index race and surfaces as Conflict.
func (s *ActiveJobService) Assign(ctx context.Context, employeeID, jobID string) (*model.ActiveJob, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !s.checker.CanPerform(emp, job) {
		return nil, apperrors.RequirementsNotMetf(
			"employee %s cannot perform tier %d %s jobs", emp.ID, job.Tier, job.Category)
	}

	route, err := s.routes.Plan(ctx, emp, emp.Location, job.Location)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	active, err := s.activeJobs.Create(ctx, &model.ActiveJob{
		ID:              uuid.NewString(),
		EmployeeID:      emp.ID,
		JobID:           job.ID,
		Start:           emp.Location,
		End:             job.Location,
		Route:           *route,
		RouteDurationMS: route.TotalDurationMS,
		RouteDistanceM:  route.TotalDistanceM,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "job assigned",
		"active_job_id", active.ID, "employee_id", emp.ID, "job_id", job.ID)
	return active, nil
}

// Start marks travel as begun. Idempotent: repeating it keeps the original
// start timestamp.
func (s *ActiveJobService) Start(ctx context.Context, activeJobID string) (*model.ActiveJob, error) {
	return s.activeJobs.Start(ctx, activeJobID, s.now())
}

// Cancel discards an assignment with no reward and no employee movement.
func (s *ActiveJobService) Cancel(ctx context.Context, activeJobID string) error {
	if err := s.activeJobs.Delete(ctx, activeJobID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "active job cancelled", "active_job_id", activeJobID)
	return nil
}

// GetByID returns one assignment.
func (s *ActiveJobService) GetByID(ctx context.Context, activeJobID string) (*model.ActiveJob, error) {
	return s.activeJobs.GetByID(ctx, activeJobID)
}

// AuthorizeEmployee verifies the employee belongs to a game state owned by
// the player.
func (s *ActiveJobService) AuthorizeEmployee(ctx context.Context, employeeID, playerID string) error {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	gs, err := s.gameStates.GetByID(ctx, emp.GameStateID)
	if err != nil {
		return err
	}
	if gs.PlayerID != playerID {
		return apperrors.AccessDenied("employee belongs to another player")
	}
	return nil
}

// AuthorizeActiveJob verifies the assignment's employee belongs to the player.
func (s *ActiveJobService) AuthorizeActiveJob(ctx context.Context, activeJobID, playerID string) error {
	active, err := s.activeJobs.GetByID(ctx, activeJobID)
	if err != nil {
		return err
	}
	return s.AuthorizeEmployee(ctx, active.EmployeeID, playerID)
}

// ListByGameState returns all assignments for a game state's employees.
func (s *ActiveJobService) ListByGameState(ctx context.Context, gameStateID string) ([]*model.ActiveJob, error) {
	return s.activeJobs.ListByGameState(ctx, gameStateID)
}
