package model

import (
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
)

// PathPoint is one node along a computed route. ElapsedMS is cumulative
// travel time from the route origin at the planner's reference speed.
type PathPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	ElapsedMS int64   `json:"elapsed_ms"`
	NodeID    *string `json:"node_id,omitempty"`
}

// Route is a computed travel path produced by the routing collaborator.
// Immutable once computed; owned by the cache, not by any active job, so the
// same instance may back many lookups. Duration here is at reference speed;
// per-employee speed adjustment happens on every use, never in the cache.
type Route struct {
	Origin          geo.Coordinate `json:"origin"`
	Destination     geo.Coordinate `json:"destination"`
	Points          []PathPoint    `json:"points"`
	TotalDurationMS int64          `json:"total_duration_ms"`
	TotalDistanceM  float64        `json:"total_distance_m"`
}

// Coordinate returns the path point location as a typed coordinate.
func (p PathPoint) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: p.Lat, Lon: p.Lon}
}
