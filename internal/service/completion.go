package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/reward"
	"github.com/RikVoorhaar/routing-game-sub002/internal/observability/metrics"
	"github.com/RikVoorhaar/routing-game-sub002/internal/observability/statsd"
)

const defaultCompletionConcurrency = 8

// CompletionRepos groups the repositories a completion touches.
type CompletionRepos struct {
	GameStates core.GameStateRepository
	Employees  core.EmployeeRepository
	Jobs       core.JobRepository
	ActiveJobs core.ActiveJobRepository
}

// CompletionConfig tunes the completion transaction.
type CompletionConfig struct {
	Factors reward.Factors
	// MaxConcurrency bounds the batch fan-out in CompleteAll.
	MaxConcurrency int
}

// CompletionServiceOptions groups dependencies for CompletionService.
type CompletionServiceOptions struct {
	Repos  CompletionRepos
	Config CompletionConfig
	Logger *slog.Logger
	// Metrics is optional; a nil sink disables emission.
	Metrics statsd.Sink
}

// CompletionService settles finished assignments: computes the reward,
// removes the assignment (the claim), relocates the employee and credits
// the economy record. The claim comes first, so a given assignment pays
// out at most once no matter how many completions race on it; the money/XP
// write is a single conditional UPDATE at the storage layer, so completions
// racing on one game state never lose an increment.
type CompletionService struct {
	gameStates core.GameStateRepository
	employees  core.EmployeeRepository
	jobs       core.JobRepository
	activeJobs core.ActiveJobRepository
	cfg        CompletionConfig
	logger     *slog.Logger
	metrics    statsd.Sink
	now        func() time.Time
}

// NewCompletionService constructs a new CompletionService.
func NewCompletionService(opts CompletionServiceOptions) *CompletionService {
	r := opts.Repos
	if r.GameStates == nil || r.Employees == nil || r.Jobs == nil || r.ActiveJobs == nil {
		panic("game state, employee, job and active-job repositories are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Config.MaxConcurrency <= 0 {
		opts.Config.MaxConcurrency = defaultCompletionConcurrency
	}
	if opts.Config.Factors == (reward.Factors{}) {
		opts.Config.Factors = reward.DefaultFactors()
	}

	return &CompletionService{
		gameStates: r.GameStates,
		employees:  r.Employees,
		jobs:       r.Jobs,
		activeJobs: r.ActiveJobs,
		cfg:        opts.Config,
		logger:     opts.Logger.With("component", "completion"),
		metrics:    opts.Metrics,
		now:        time.Now,
	}
}

// CompleteParams controls one completion.
type CompleteParams struct {
	// Force skips the travel-time readiness check. Used by the batch
	// cheat path and by tests.
	Force bool
	// DeferStateUpdate computes the reward and removes the assignment but
	// leaves the economy write to the caller, which aggregates deltas
	// across a batch into one UPDATE.
	DeferStateUpdate bool
}

// CompletionResult is the outcome of one settled assignment.
type CompletionResult struct {
	ActiveJobID string             `json:"active_job_id"`
	JobID       string             `json:"job_id"`
	EmployeeID  string             `json:"employee_id"`
	Delta       model.EconomyDelta `json:"delta"`
	// State is the post-write economy record; nil when the state update
	// was deferred.
	State *model.GameState `json:"state,omitempty"`
}

// Complete settles one assignment. Readiness requires travel to have started
// and elapsed time to cover the route duration adjusted for the employee's
// speed; Force bypasses that gate. The reward is a pure function of the job
// and route, so recomputing it on retry is safe.
func (s *CompletionService) Complete(
	ctx context.Context,
	activeJobID string,
	params CompleteParams,
) (*CompletionResult, error) {
	start := time.Now()
	result, err := s.complete(ctx, activeJobID, params)

	outcome := metrics.ResultSuccess
	if err != nil {
		outcome = metrics.ResultError
	}
	metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
		Transition: "complete",
		Result:     outcome,
		Duration:   time.Since(start),
		Err:        err,
	})
	return result, err
}

func (s *CompletionService) complete(
	ctx context.Context,
	activeJobID string,
	params CompleteParams,
) (*CompletionResult, error) {
	active, err := s.activeJobs.GetByID(ctx, activeJobID)
	if err != nil {
		return nil, err
	}
	emp, err := s.employees.GetByID(ctx, active.EmployeeID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, active.JobID)
	if err != nil {
		return nil, err
	}

	if !params.Force {
		if err := s.checkReady(active, emp); err != nil {
			return nil, err
		}
	}

	delta := reward.Compute(job, active, s.cfg.Factors)

	result := &CompletionResult{
		ActiveJobID: active.ID,
		JobID:       job.ID,
		EmployeeID:  emp.ID,
		Delta:       delta,
	}

	// The row delete inside CompleteAndRelocate is the claim: exactly one
	// caller removes the assignment, so a duplicate completion racing past
	// the read above loses here with NotFound before any economy write.
	// Crediting only after a successful claim also keeps retries of a
	// failed finalize from paying the reward twice.
	if err := s.activeJobs.CompleteAndRelocate(ctx, active.ID, emp.ID, active.End); err != nil {
		return nil, fmt.Errorf("finalize completion: %w", err)
	}

	if !params.DeferStateUpdate {
		state, applyErr := s.gameStates.ApplyDelta(ctx, emp.GameStateID, delta)
		if applyErr != nil {
			return nil, fmt.Errorf("apply economy delta: %w", applyErr)
		}
		result.State = state
	}

	s.logger.InfoContext(ctx, "job completed",
		"active_job_id", active.ID,
		"employee_id", emp.ID,
		"money", delta.Money,
		"deferred", params.DeferStateUpdate,
	)
	return result, nil
}

func (s *CompletionService) checkReady(active *model.ActiveJob, emp *model.Employee) error {
	if active.StartedAt == nil {
		return apperrors.Validationf("active job %s has not started", active.ID)
	}
	needed := reward.AdjustedDuration(active.RouteDurationMS, emp, s.cfg.Factors)
	if elapsed := active.Elapsed(s.now()); elapsed < needed {
		return apperrors.Validationf(
			"active job %s completes in %s", active.ID, (needed - elapsed).Round(time.Second))
	}
	return nil
}

// BatchResult summarizes a CompleteAll run.
type BatchResult struct {
	Completed []*CompletionResult `json:"completed"`
	Failed    int                 `json:"failed"`
	// State is the economy record after the single combined write; nil when
	// nothing completed.
	State *model.GameState `json:"state,omitempty"`
}

// CompleteAll force-completes every assignment of a game state. Per-job
// completions run concurrently with deferred state updates; the summed delta
// lands in one UPDATE so the batch costs one economy write no matter its
// size. Individual failures are logged and skipped; the call errors only
// when nothing at all completed.
func (s *CompletionService) CompleteAll(ctx context.Context, gameStateID string) (*BatchResult, error) {
	if _, err := s.gameStates.GetByID(ctx, gameStateID); err != nil {
		return nil, err
	}

	actives, err := s.activeJobs.ListByGameState(ctx, gameStateID)
	if err != nil {
		return nil, err
	}
	if len(actives) == 0 {
		return &BatchResult{Completed: []*CompletionResult{}}, nil
	}

	var (
		mu       sync.Mutex
		results  []*CompletionResult
		combined model.EconomyDelta
		failed   int
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrency)
	for _, active := range actives {
		g.Go(func() error {
			res, completeErr := s.Complete(gctx, active.ID, CompleteParams{
				Force:            true,
				DeferStateUpdate: true,
			})

			mu.Lock()
			defer mu.Unlock()
			if completeErr != nil {
				// one stuck job must not block the rest of the batch
				failed++
				if firstErr == nil {
					firstErr = completeErr
				}
				s.logger.WarnContext(gctx, "batch completion item failed",
					"active_job_id", active.ID, "err", completeErr)
				return nil
			}
			results = append(results, res)
			combined.Merge(res.Delta)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("complete all for game state %s: %w", gameStateID, firstErr)
	}

	state, err := s.gameStates.ApplyDelta(ctx, gameStateID, combined)
	if err != nil {
		return nil, fmt.Errorf("apply combined delta: %w", err)
	}

	s.logger.InfoContext(ctx, "batch completion finished",
		"game_state_id", gameStateID,
		"completed", len(results),
		"failed", failed,
		"money", combined.Money,
	)
	return &BatchResult{Completed: results, Failed: failed, State: state}, nil
}
