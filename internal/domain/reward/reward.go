// Package reward holds the pure payout arithmetic: job rewards, XP gains,
// and speed-adjusted travel durations. Everything here is a function of its
// inputs so it can run concurrently and be tested without any wiring.
package reward

import (
	"math"
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// Factors are the configured tuning knobs for payout computation.
type Factors struct {
	// Base is the flat payout every completed job earns.
	Base float64
	// PerKM is the payout per kilometer of route distance.
	PerKM float64
	// TierGrowth scales reward per tier above 1 (tier n multiplies by TierGrowth^(n-1)).
	TierGrowth float64
	// XPPerKM converts route distance to base XP.
	XPPerKM float64
	// XPMultiplier is the global XP multiplier (upgrades and events adjust it).
	XPMultiplier float64
	// SpeedMultiplier is the global travel speed multiplier.
	SpeedMultiplier float64
	// ReferenceSpeedKMH is the speed the routing collaborator assumes when
	// computing route durations.
	ReferenceSpeedKMH float64
}

// DefaultFactors returns the tuning used when config leaves factors unset.
func DefaultFactors() Factors {
	return Factors{
		Base:              5,
		PerKM:             1.5,
		TierGrowth:        1.6,
		XPPerKM:           10,
		XPMultiplier:      1,
		SpeedMultiplier:   1,
		ReferenceSpeedKMH: 50,
	}
}

// ComputeXPGain returns floor(baseXP * multiplier), clamped to 0 when either
// input is negative. A negative multiplier means "no gain", never an XP
// reversal; that clamp is load-bearing and covered by tests.
func ComputeXPGain(baseXP int64, multiplier float64) int64 {
	if baseXP < 0 || multiplier < 0 {
		return 0
	}
	return int64(math.Floor(float64(baseXP) * multiplier))
}

// Compute calculates the economy delta for completing one active job.
// Reward is a pure function of the job's tier and reward basis, the route
// distance, and the configured factors. Elapsed time does not increase the
// payout; it only gated completion upstream.
func Compute(job *model.Job, active *model.ActiveJob, f Factors) model.EconomyDelta {
	tierMult := 1.0
	if job.Tier > 1 && f.TierGrowth > 0 {
		tierMult = math.Pow(f.TierGrowth, float64(job.Tier-1))
	}

	distKM := active.RouteDistanceM / 1000
	money := (f.Base + job.RewardBasis + f.PerKM*distKM) * tierMult

	baseXP := int64(math.Floor(distKM * f.XPPerKM * tierMult))
	xp := ComputeXPGain(baseXP, f.XPMultiplier)

	delta := model.EconomyDelta{Money: money}
	if xp > 0 {
		delta.XP = map[string]int64{job.Category.String(): xp}
	}
	return delta
}

// AdjustedDuration rescales a route's reference-speed duration for one
// employee's top speed and the global speed multiplier. Applied on every
// use of a route, never baked into the cached value, so speed stat changes
// never require cache invalidation.
func AdjustedDuration(routeDurationMS int64, employee *model.Employee, f Factors) time.Duration {
	base := time.Duration(routeDurationMS) * time.Millisecond
	speed := f.ReferenceSpeedKMH
	if employee != nil && employee.MaxSpeedKMH > 0 {
		speed = employee.MaxSpeedKMH
	}
	if f.ReferenceSpeedKMH <= 0 || speed <= 0 {
		return base
	}

	factor := f.ReferenceSpeedKMH / speed
	if f.SpeedMultiplier > 0 {
		factor /= f.SpeedMultiplier
	}
	return time.Duration(float64(base) * factor)
}
