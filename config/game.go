package config

import (
	"strings"
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/reward"
)

// RoutingConfig contains configuration for the external routing collaborator.
type RoutingConfig struct {
	// BaseURL is the base URL of the routing service.
	BaseURL string `env:"ROUTING_BASE_URL" envDefault:"http://localhost:9966"`

	// Timeout bounds a single shortest-path request.
	Timeout time.Duration `env:"ROUTING_TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to routing configuration values.
func (r *RoutingConfig) Sanitize() {
	r.BaseURL = strings.TrimSpace(r.BaseURL)
	if r.Timeout <= 0 {
		r.Timeout = 5 * time.Second
	}
}

// RouteCacheConfig contains TTLs for the two route cache tiers.
type RouteCacheConfig struct {
	// TravelerTTL is the TTL of the in-process per-traveler tier.
	TravelerTTL time.Duration `env:"ROUTE_CACHE_TRAVELER_TTL" envDefault:"5m"`

	// SharedTTL is the TTL of the Redis-backed shared tier.
	SharedTTL time.Duration `env:"ROUTE_CACHE_SHARED_TTL" envDefault:"30m"`
}

// Sanitize applies guardrails to route cache configuration values.
func (r *RouteCacheConfig) Sanitize() {
	if r.TravelerTTL <= 0 {
		r.TravelerTTL = 5 * time.Minute
	}
	if r.SharedTTL <= 0 {
		r.SharedTTL = 30 * time.Minute
	}
}

// RewardConfig contains the payout tuning knobs. Zero values fall back to
// the defaults in the reward package.
type RewardConfig struct {
	Base              float64 `env:"REWARD_BASE"                envDefault:"5"`
	PerKM             float64 `env:"REWARD_PER_KM"              envDefault:"1.5"`
	TierGrowth        float64 `env:"REWARD_TIER_GROWTH"         envDefault:"1.6"`
	XPPerKM           float64 `env:"REWARD_XP_PER_KM"           envDefault:"10"`
	XPMultiplier      float64 `env:"REWARD_XP_MULTIPLIER"       envDefault:"1"`
	SpeedMultiplier   float64 `env:"REWARD_SPEED_MULTIPLIER"    envDefault:"1"`
	ReferenceSpeedKMH float64 `env:"REWARD_REFERENCE_SPEED_KMH" envDefault:"50"`
}

// Sanitize applies guardrails to reward configuration values.
func (r *RewardConfig) Sanitize() {
	defaults := reward.DefaultFactors()
	if r.TierGrowth <= 0 {
		r.TierGrowth = defaults.TierGrowth
	}
	if r.ReferenceSpeedKMH <= 0 {
		r.ReferenceSpeedKMH = defaults.ReferenceSpeedKMH
	}
	if r.SpeedMultiplier <= 0 {
		r.SpeedMultiplier = defaults.SpeedMultiplier
	}
}

// Factors converts the configuration to the reward package's value type.
func (r *RewardConfig) Factors() reward.Factors {
	return reward.Factors{
		Base:              r.Base,
		PerKM:             r.PerKM,
		TierGrowth:        r.TierGrowth,
		XPPerKM:           r.XPPerKM,
		XPMultiplier:      r.XPMultiplier,
		SpeedMultiplier:   r.SpeedMultiplier,
		ReferenceSpeedKMH: r.ReferenceSpeedKMH,
	}
}
