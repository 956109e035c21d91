package model

import (
	"time"
)

// GameState is the persisted per-player progression record: money, XP per
// job category, and the set of purchased upgrades. Money and XP are mutated
// exclusively through single-statement conditional updates evaluated by the
// storage layer, never by read-modify-write in process.
type GameState struct {
	ID       string  `json:"id"        db:"id"`
	PlayerID string  `json:"player_id" db:"player_id"`
	Money    float64 `json:"money"     db:"money"`
	// XP maps category name → accumulated experience. A missing key reads
	// as zero; storage increments are expressed so that missing keys start
	// from zero without a prior read.
	XP       map[string]int64 `json:"xp"`
	Upgrades []string         `json:"upgrades"`
	Seed     int64            `json:"seed"       db:"seed"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// XPFor returns the XP for a category, treating a missing key as 0.
func (g *GameState) XPFor(category JobCategory) int64 {
	if g.XP == nil {
		return 0
	}
	return g.XP[category.String()]
}

// TotalXP sums XP across all categories. Used for upgrade level gates.
func (g *GameState) TotalXP() int64 {
	var total int64
	for _, v := range g.XP {
		total += v
	}
	return total
}

// HasUpgrade reports whether the upgrade id has been purchased.
func (g *GameState) HasUpgrade(id string) bool {
	for _, u := range g.Upgrades {
		if u == id {
			return true
		}
	}
	return false
}

// EconomyDelta is the outcome of completing one or more active jobs,
// expressed as increments the storage layer applies atomically.
type EconomyDelta struct {
	Money float64          `json:"money"`
	XP    map[string]int64 `json:"xp"`
}

// Merge folds another delta into this one. Used by the batch completion
// path to combine per-job rewards into one economy-record write.
func (d *EconomyDelta) Merge(other EconomyDelta) {
	d.Money += other.Money
	if len(other.XP) == 0 {
		return
	}
	if d.XP == nil {
		d.XP = make(map[string]int64, len(other.XP))
	}
	for k, v := range other.XP {
		d.XP[k] += v
	}
}
