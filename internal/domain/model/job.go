// Package model defines the core data types for the routing game backend:
// employees, jobs, active jobs, routes, and per-player game state.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
)

// JobCategory classifies what kind of delivery a job is.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobCategory int

const (
	// CategoryParcel is small-package delivery, the entry-level category.
	CategoryParcel JobCategory = iota
	// CategoryGrocery is perishable goods delivery.
	CategoryGrocery
	// CategoryFurniture is bulky-goods delivery requiring a van.
	CategoryFurniture
	// CategoryFreight is palletized cargo requiring a truck license.
	CategoryFreight
	// CategoryHazmat is dangerous-goods transport, the highest license class.
	CategoryHazmat

	// MaxCategory is the highest recognized category value. Anything outside
	// [0, MaxCategory] is treated as malformed data and fails closed.
	MaxCategory = int(CategoryHazmat)
)

var categoryNames = map[JobCategory]string{
	CategoryParcel:    "parcel",
	CategoryGrocery:   "grocery",
	CategoryFurniture: "furniture",
	CategoryFreight:   "freight",
	CategoryHazmat:    "hazmat",
}

// Valid reports whether the category is a recognized enum value.
func (c JobCategory) Valid() bool {
	return int(c) >= 0 && int(c) <= MaxCategory
}

// String returns the lowercase category name, or "unknown" for malformed values.
func (c JobCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// UnmarshalText implements encoding.TextUnmarshaler so categories can be
// parsed from config and query parameters by name.
func (c *JobCategory) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	for cat, name := range categoryNames {
		if name == v {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("invalid job category: %q", v)
}

// Job is a deliverable task generated on the map. Immutable once generated;
// it is consumed by assignment or expires on the generator's schedule.
type Job struct {
	ID          string         `json:"id"           db:"id"`
	Location    geo.Coordinate `json:"location"`
	Category    JobCategory    `json:"category"     db:"category"`
	Tier        int            `json:"tier"         db:"tier"`
	RewardBasis float64        `json:"reward_basis" db:"reward_basis"`
	DistanceM   float64        `json:"distance_m"   db:"distance_m"`
	CreatedAt   time.Time      `json:"created_at"   db:"created_at"`
}

// Validate checks invariants for a job record. Tier 0 is invalid by definition.
func (j *Job) Validate() error {
	if !j.Category.Valid() {
		return fmt.Errorf("invalid category %d", int(j.Category))
	}
	if j.Tier < 1 {
		return fmt.Errorf("invalid tier %d: tiers start at 1", j.Tier)
	}
	if !j.Location.Valid() {
		return fmt.Errorf("invalid job location")
	}
	if j.RewardBasis < 0 {
		return fmt.Errorf("negative reward basis")
	}
	return nil
}
