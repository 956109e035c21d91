package model

import (
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
)

// Employee is an in-game worker that travels between places to perform jobs.
// Owned by, and lifetime-bound to, its GameState.
type Employee struct {
	ID          string         `json:"id"            db:"id"`
	GameStateID string         `json:"game_state_id" db:"game_state_id"`
	Name        string         `json:"name"          db:"name"`
	Location    geo.Coordinate `json:"location"`
	// DrivingLevel is the skill level gating job tiers: a tier-n job
	// requires DrivingLevel >= n-1.
	DrivingLevel int `json:"driving_level" db:"driving_level"`
	// VehicleClass is the vehicle capability class checked against the
	// per-category requirement table.
	VehicleClass int       `json:"vehicle_class" db:"vehicle_class"`
	MaxSpeedKMH  float64   `json:"max_speed_kmh" db:"max_speed_kmh"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}
