// Package jobgen keeps the job table populated. A deterministic generator
// produces delivery jobs inside the configured map region and a runner feeds
// them to the repository on a fixed interval, pruning stale unclaimed jobs as
// it goes.
package jobgen

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// GeneratorConfig bounds what the generator may produce.
type GeneratorConfig struct {
	Region  geo.BoundingBox
	MaxTier int

	// RewardBasisMax caps the random per-job reward basis.
	RewardBasisMax float64
}

// Generator produces batches of jobs. Attribute streams are fully determined
// by the seed passed to Batch, so the same world seed replays the same map.
type Generator struct {
	cfg GeneratorConfig
}

// NewGenerator builds a generator; zero-value config fields get conservative
// defaults.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.MaxTier < 1 {
		cfg.MaxTier = 3
	}
	if cfg.RewardBasisMax <= 0 {
		cfg.RewardBasisMax = 20
	}
	if cfg.Region.North == cfg.Region.South || cfg.Region.East == cfg.Region.West {
		// Utrecht and surroundings, the default play area
		cfg.Region = geo.BoundingBox{South: 51.95, West: 4.95, North: 52.25, East: 5.35}
	}
	return &Generator{cfg: cfg}
}

// Batch generates n jobs from the given seed. Tier is biased toward low
// values so fresh players always find work; distance grows with tier so the
// ordering metric stays meaningful.
func (g *Generator) Batch(seed uint64, n int, now time.Time) []*model.Job {
	rng := rand.New(rand.NewPCG(seed, uint64(now.UnixNano())))

	jobs := make([]*model.Job, 0, n)
	for range n {
		tier := g.rollTier(rng)
		loc := g.rollLocation(rng)
		jobs = append(jobs, &model.Job{
			ID:          uuid.NewString(),
			Location:    loc,
			Category:    g.rollCategory(rng, tier),
			Tier:        tier,
			RewardBasis: math.Round(rng.Float64()*g.cfg.RewardBasisMax*100) / 100,
			DistanceM:   g.rollDistance(rng, tier),
			CreatedAt:   now,
		})
	}
	return jobs
}

// rollTier takes the minimum of two uniform draws, which skews mass toward
// tier 1 without ever starving the top tier.
func (g *Generator) rollTier(rng *rand.Rand) int {
	a := rng.IntN(g.cfg.MaxTier)
	b := rng.IntN(g.cfg.MaxTier)
	return 1 + min(a, b)
}

func (g *Generator) rollLocation(rng *rand.Rand) geo.Coordinate {
	r := g.cfg.Region
	return geo.Coordinate{
		Lat: r.South + rng.Float64()*(r.North-r.South),
		Lon: r.West + rng.Float64()*(r.East-r.West),
	}
}

// rollCategory picks any category whose capability floor plausibly matches
// the tier: hazmat only shows up at the top tiers.
func (g *Generator) rollCategory(rng *rand.Rand, tier int) model.JobCategory {
	if tier >= 3 {
		return model.JobCategory(rng.IntN(int(model.MaxCategory) + 1))
	}
	return model.JobCategory(rng.IntN(int(model.MaxCategory)))
}

func (g *Generator) rollDistance(rng *rand.Rand, tier int) float64 {
	base := 500 + rng.Float64()*2500
	return math.Round(base * float64(tier))
}
