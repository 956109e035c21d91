package model

import (
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
)

// ActiveJobState describes where an assignment is in its lifecycle.
// Completed and Cancelled are terminal: the record is deleted, so only
// Unstarted and InProgress are ever observable on a stored row.
type ActiveJobState string

const (
	// ActiveJobUnstarted means the assignment exists but travel has not begun.
	ActiveJobUnstarted ActiveJobState = "unstarted"
	// ActiveJobInProgress means the start timestamp is set and travel is underway.
	ActiveJobInProgress ActiveJobState = "in_progress"
)

// ActiveJob is one in-progress assignment of an employee to a job.
// Invariant: at most one ActiveJob per employee, enforced by a unique
// index on employee_id at the storage layer.
type ActiveJob struct {
	ID         string         `json:"id"          db:"id"`
	EmployeeID string         `json:"employee_id" db:"employee_id"`
	JobID      string         `json:"job_id"      db:"job_id"`
	Start      geo.Coordinate `json:"start"`
	End        geo.Coordinate `json:"end"`
	// StartedAt is nil until the external start action fires. Setting it is
	// idempotent: a second start leaves the original timestamp in place.
	StartedAt       *time.Time `json:"started_at,omitempty" db:"started_at"`
	Route           Route      `json:"route"`
	RouteDurationMS int64      `json:"route_duration_ms" db:"route_duration_ms"`
	RouteDistanceM  float64    `json:"route_distance_m"  db:"route_distance_m"`
	CreatedAt       time.Time  `json:"created_at"        db:"created_at"`
}

// State derives the lifecycle state from the start timestamp.
func (a *ActiveJob) State() ActiveJobState {
	if a.StartedAt == nil {
		return ActiveJobUnstarted
	}
	return ActiveJobInProgress
}

// Elapsed returns travel time since start, or zero when unstarted.
func (a *ActiveJob) Elapsed(now time.Time) time.Duration {
	if a.StartedAt == nil {
		return 0
	}
	d := now.Sub(*a.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}
