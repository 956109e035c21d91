package metrics

import (
	"testing"
	"time"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"
)

type recordedMetric struct {
	name  string
	value int64
	tags  map[string]string
}

type fakeSink struct {
	counts  []recordedMetric
	timings []recordedMetric
}

func (f *fakeSink) Count(name string, value int64, tags map[string]string) {
	f.counts = append(f.counts, recordedMetric{name: name, value: value, tags: tags})
}

func (f *fakeSink) Gauge(string, float64, map[string]string) {}

func (f *fakeSink) Timing(name string, value time.Duration, tags map[string]string) {
	f.timings = append(f.timings, recordedMetric{name: name, value: int64(value), tags: tags})
}

func TestEmitRouteLookup(t *testing.T) {
	sink := &fakeSink{}

	EmitRouteLookup(sink, RouteSourceShared, 12*time.Millisecond)

	if len(sink.counts) != 1 {
		t.Fatalf("expected 1 count, got %d", len(sink.counts))
	}
	if sink.counts[0].name != "route.lookup" {
		t.Errorf("count name = %q", sink.counts[0].name)
	}
	if sink.counts[0].tags["source"] != RouteSourceShared {
		t.Errorf("source tag = %q", sink.counts[0].tags["source"])
	}
	if len(sink.timings) != 1 {
		t.Fatalf("expected 1 timing, got %d", len(sink.timings))
	}
}

func TestEmitRouteLookupSkipsZeroDuration(t *testing.T) {
	sink := &fakeSink{}

	EmitRouteLookup(sink, RouteSourceTraveler, 0)

	if len(sink.counts) != 1 {
		t.Fatalf("expected 1 count, got %d", len(sink.counts))
	}
	if len(sink.timings) != 0 {
		t.Fatalf("expected no timings for cache hit, got %d", len(sink.timings))
	}
}

func TestEmitJobLifecycleTagsErrorClass(t *testing.T) {
	sink := &fakeSink{}

	EmitJobLifecycle(sink, JobMetric{
		Transition: "complete",
		Result:     ResultError,
		Err:        apperrors.NotFound("gone"),
	})

	if len(sink.counts) != 1 {
		t.Fatalf("expected 1 count, got %d", len(sink.counts))
	}
	if got := sink.counts[0].tags["error_class"]; got != "not_found" {
		t.Errorf("error_class = %q, want not_found", got)
	}
}

func TestEmittersTolerateNilSink(t *testing.T) {
	// must not panic
	EmitRouteLookup(nil, RouteSourcePlanner, time.Second)
	EmitJobLifecycle(nil, JobMetric{Transition: "assign", Result: ResultSuccess})
	EmitJobGeneration(nil, 5, 2)
}

func TestEmitJobGeneration(t *testing.T) {
	sink := &fakeSink{}

	EmitJobGeneration(sink, 25, 3)

	if len(sink.counts) != 2 {
		t.Fatalf("expected 2 counts, got %d", len(sink.counts))
	}
	if sink.counts[0].name != "jobgen.inserted" || sink.counts[0].value != 25 {
		t.Errorf("inserted metric = %+v", sink.counts[0])
	}
	if sink.counts[1].name != "jobgen.pruned" || sink.counts[1].value != 3 {
		t.Errorf("pruned metric = %+v", sink.counts[1])
	}
}
