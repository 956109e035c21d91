package service

import (
	"context"
	"log/slog"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// JobQueryServiceOptions groups dependencies for JobQueryService.
type JobQueryServiceOptions struct {
	Jobs      core.JobRepository
	Employees core.EmployeeRepository
	Logger    *slog.Logger
}

// JobQueryService serves the two spatial read paths: jobs inside a map tile
// and nearest jobs of a tier around an employee. Read-only; an empty area is
// an empty slice, never an error.
type JobQueryService struct {
	jobs      core.JobRepository
	employees core.EmployeeRepository
	logger    *slog.Logger
}

// NewJobQueryService constructs a new JobQueryService.
func NewJobQueryService(opts JobQueryServiceOptions) *JobQueryService {
	if opts.Jobs == nil {
		panic("JobRepository is required")
	}
	if opts.Employees == nil {
		panic("EmployeeRepository is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &JobQueryService{
		jobs:      opts.Jobs,
		employees: opts.Employees,
		logger:    opts.Logger,
	}
}

// JobsInTile returns jobs inside the slippy-map tile, most valuable (by
// distance metric) first.
func (s *JobQueryService) JobsInTile(ctx context.Context, tile geo.Tile, limit int) ([]*model.Job, error) {
	if err := tile.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid tile")
	}
	return s.jobs.ListInBounds(ctx, tile.Bounds(), core.JobQuery{Limit: limit})
}

// NearestJobsForEmployee returns the closest jobs of exactly the given tier
// around the employee's current location.
func (s *JobQueryService) NearestJobsForEmployee(
	ctx context.Context,
	employeeID string,
	tier, limit int,
) ([]*model.Job, error) {
	if tier < 1 {
		return nil, apperrors.ValidationField("tier", "tier must be >= 1")
	}
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.jobs.ListNearestByTier(ctx, emp.Location, tier, core.JobQuery{Limit: limit})
}
