package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/reward"
	"github.com/RikVoorhaar/routing-game-sub002/internal/observability/metrics"
	"github.com/RikVoorhaar/routing-game-sub002/internal/observability/statsd"
)

// RoutePlanConfig holds the tuning for route planning.
type RoutePlanConfig struct {
	// PlanTimeout bounds one call to the routing collaborator.
	PlanTimeout time.Duration
	Factors     reward.Factors
}

// RoutePlanServiceOptions groups dependencies for RoutePlanService.
type RoutePlanServiceOptions struct {
	Planner core.RoutePlanner
	// Traveler is the per-employee in-memory cache tier. Required.
	Traveler core.RouteCache
	// Shared is the cross-process cache tier (Redis). Optional.
	Shared core.RouteCache
	Config RoutePlanConfig
	Logger *slog.Logger
	// Metrics is optional; a nil sink disables emission.
	Metrics statsd.Sink
}

// RoutePlanService resolves routes through two cache tiers before falling
// back to the routing collaborator. Cached routes hold reference-speed
// durations only; per-employee speed adjustment happens on every read, so a
// speed stat change never invalidates a cache entry.
type RoutePlanService struct {
	planner  core.RoutePlanner
	traveler core.RouteCache
	shared   core.RouteCache
	cfg      RoutePlanConfig
	logger   *slog.Logger
	metrics  statsd.Sink

	// flight collapses concurrent planner calls for the same origin/dest
	// pair into one upstream request.
	flight singleflight.Group
}

// NewRoutePlanService constructs a new RoutePlanService.
func NewRoutePlanService(opts RoutePlanServiceOptions) *RoutePlanService {
	if opts.Planner == nil {
		panic("RoutePlanner is required")
	}
	if opts.Traveler == nil {
		panic("traveler route cache is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Config.PlanTimeout <= 0 {
		opts.Config.PlanTimeout = 5 * time.Second
	}
	if opts.Config.Factors == (reward.Factors{}) {
		opts.Config.Factors = reward.DefaultFactors()
	}

	return &RoutePlanService{
		planner:  opts.Planner,
		traveler: opts.Traveler,
		shared:   opts.Shared,
		cfg:      opts.Config,
		logger:   opts.Logger.With("component", "routeplan"),
		metrics:  opts.Metrics,
	}
}

// Plan resolves a route for the employee: traveler tier, then shared tier,
// then the collaborator. Planner failures propagate to the caller untouched;
// nothing here fabricates a route.
func (s *RoutePlanService) Plan(
	ctx context.Context,
	employee *model.Employee,
	origin, dest geo.Coordinate,
) (*model.Route, error) {
	travelerKey := core.EmployeeRouteKey(employee.ID, origin, dest)
	if route, ok, err := s.traveler.Get(ctx, travelerKey); err == nil && ok {
		metrics.EmitRouteLookup(s.metrics, metrics.RouteSourceTraveler, 0)
		return route, nil
	} else if err != nil {
		s.logger.WarnContext(ctx, "traveler cache read failed", "err", err)
	}

	sharedKey := core.SharedRouteKey(origin, dest)
	if s.shared != nil {
		route, ok, err := s.shared.Get(ctx, sharedKey)
		switch {
		case err != nil:
			// cache trouble must not block planning
			s.logger.WarnContext(ctx, "shared cache read failed", "err", err)
		case ok:
			metrics.EmitRouteLookup(s.metrics, metrics.RouteSourceShared, 0)
			s.fill(ctx, travelerKey, "", route)
			return route, nil
		}
	}

	planStart := time.Now()
	v, err, _ := s.flight.Do(sharedKey, func() (any, error) {
		planCtx, cancel := context.WithTimeout(ctx, s.cfg.PlanTimeout)
		defer cancel()
		return s.planner.ShortestPath(planCtx, origin, dest)
	})
	if err != nil {
		return nil, err
	}
	metrics.EmitRouteLookup(s.metrics, metrics.RouteSourcePlanner, time.Since(planStart))
	route, ok := v.(*model.Route)
	if !ok || route == nil {
		return nil, apperrors.Internal("planner returned no route")
	}

	s.fill(ctx, travelerKey, sharedKey, route)
	return route, nil
}

// fill populates the cache tiers best-effort. A failed write is a warning,
// never an error: the route is already in hand.
func (s *RoutePlanService) fill(ctx context.Context, travelerKey, sharedKey string, route *model.Route) {
	if err := s.traveler.Put(ctx, travelerKey, route); err != nil {
		s.logger.WarnContext(ctx, "traveler cache write failed", "err", err)
	}
	if s.shared != nil && sharedKey != "" {
		if err := s.shared.Put(ctx, sharedKey, route); err != nil {
			s.logger.WarnContext(ctx, "shared cache write failed", "err", err)
		}
	}
}

// AdjustedDuration rescales a reference-speed route duration for one
// employee. Recomputed on every call.
func (s *RoutePlanService) AdjustedDuration(routeDurationMS int64, employee *model.Employee) time.Duration {
	return reward.AdjustedDuration(routeDurationMS, employee, s.cfg.Factors)
}
