package jobgen

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/observability/metrics"
	"github.com/RikVoorhaar/routing-game-sub002/internal/observability/statsd"
)

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Jobs      core.JobRepository
	Generator *Generator
	Logger    *slog.Logger
	// Metrics is optional; a nil sink disables emission.
	Metrics statsd.Sink

	Interval  time.Duration
	BatchSize int
	MaxJobAge time.Duration
	Seed      uint64
}

// Runner tops up the job table on a fixed interval and prunes jobs that sat
// unclaimed past MaxJobAge. Jobs referenced by an active assignment are never
// pruned; the repository enforces that.
type Runner struct {
	jobs      core.JobRepository
	gen       *Generator
	logger    *slog.Logger
	metrics   statsd.Sink
	interval  time.Duration
	batchSize int
	maxJobAge time.Duration
	seed      uint64
}

// NewRunner creates a new job generation runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Jobs == nil {
		return nil, errors.New("job repository is required")
	}
	if opts.Generator == nil {
		opts.Generator = NewGenerator(GeneratorConfig{})
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 25
	}
	if opts.MaxJobAge <= 0 {
		opts.MaxJobAge = time.Hour
	}

	return &Runner{
		jobs:      opts.Jobs,
		gen:       opts.Generator,
		logger:    opts.Logger.With("component", "jobgen"),
		metrics:   opts.Metrics,
		interval:  opts.Interval,
		batchSize: opts.BatchSize,
		maxJobAge: opts.MaxJobAge,
		seed:      opts.Seed,
	}, nil
}

// Run starts the generation loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting job generation runner",
		"interval", r.interval, "batch_size", r.batchSize)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "job generation runner stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case now := <-ticker.C:
			if err := r.Tick(ctx, now); err != nil {
				// keep running despite errors
				r.logger.ErrorContext(ctx, "job generation tick failed", "err", err)
			}
		}
	}
}

// Tick runs one prune-then-generate cycle.
func (r *Runner) Tick(ctx context.Context, now time.Time) error {
	pruned, err := r.jobs.DeleteOlderThan(ctx, now.Add(-r.maxJobAge))
	if err != nil {
		return err
	}

	batch := r.gen.Batch(r.seed, r.batchSize, now)
	if err := r.jobs.Insert(ctx, batch); err != nil {
		return err
	}

	metrics.EmitJobGeneration(r.metrics, len(batch), pruned)
	r.logger.DebugContext(ctx, "job generation tick",
		"inserted", len(batch), "pruned", pruned)
	return nil
}
