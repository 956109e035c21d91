// Package metrics defines the StatsD metric shapes emitted by the job and
// route-planning paths. All emitters tolerate a nil sink so callers never
// guard their own metric calls.
package metrics

import (
	"time"

	obserrors "github.com/RikVoorhaar/routing-game-sub002/internal/observability/errors"
	"github.com/RikVoorhaar/routing-game-sub002/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Route lookup sources, in resolution order.
const (
	RouteSourceTraveler = "traveler"
	RouteSourceShared   = "shared"
	RouteSourcePlanner  = "planner"
)

// EmitRouteLookup records where a route resolution was satisfied: the
// per-employee tier, the shared tier, or a planner round trip.
func EmitRouteLookup(sink statsd.Sink, source string, duration time.Duration) {
	if sink == nil {
		return
	}
	tags := map[string]string{"source": source}
	sink.Count("route.lookup", 1, tags)
	if duration > 0 {
		sink.Timing("route.lookup_duration", duration, tags)
	}
}

// JobMetric captures one assignment lifecycle event for metric emission.
type JobMetric struct {
	Transition string
	Result     string
	Duration   time.Duration
	Err        error
}

// EmitJobLifecycle emits standardised assignment lifecycle metrics.
func EmitJobLifecycle(sink statsd.Sink, in JobMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"transition": in.Transition,
		"result":     in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("job.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("job.duration", in.Duration, tags)
	}
}

// EmitJobGeneration records one generator tick.
func EmitJobGeneration(sink statsd.Sink, inserted int, pruned int64) {
	if sink == nil {
		return
	}
	sink.Count("jobgen.inserted", int64(inserted), nil)
	sink.Count("jobgen.pruned", pruned, nil)
}
