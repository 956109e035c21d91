// Package devseed populates a development database with a demo game state,
// a few employees, and an initial batch of generated jobs. Seeding is
// idempotent: rerunning it never duplicates rows.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/adapters/jobgen"
	"github.com/RikVoorhaar/routing-game-sub002/internal/data"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
)

// Fixed ids keep reseeding idempotent and make the demo data easy to point
// curl at.
const (
	DemoGameStateID = "00000000-0000-4000-8000-000000000001"
	DemoPlayerID    = "dev-player"

	demoSeed      = 42
	demoJobCount  = 50
	demoRegionKey = "utrecht"
)

var demoEmployees = []struct {
	id           string
	name         string
	lat, lon     float64
	drivingLevel int
	vehicleClass int
	maxSpeedKMH  float64
}{
	{"00000000-0000-4000-8000-000000000101", "Jip", 52.0907, 5.1214, 0, 0, 25},
	{"00000000-0000-4000-8000-000000000102", "Janneke", 52.0936, 5.1171, 1, 1, 50},
	{"00000000-0000-4000-8000-000000000103", "Mees", 52.0841, 5.1253, 3, 2, 80},
}

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB   *sql.DB
	jobs *data.JobRepo
	gen  *jobgen.Generator
}

// NewServices constructs the seeding dependencies using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:   db,
		jobs: data.NewJobRepo(db, nil),
		gen:  jobgen.NewGenerator(jobgen.GeneratorConfig{}),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if svcs.DB == nil {
		return fmt.Errorf("devseed: database is required")
	}

	if err := seedGameState(ctx, svcs.DB, logger); err != nil {
		return err
	}
	if err := seedEmployees(ctx, svcs.DB, logger); err != nil {
		return err
	}
	if err := seedJobs(ctx, svcs, logger); err != nil {
		return err
	}

	if logger != nil {
		logger.InfoContext(ctx, "development seeding completed",
			"game_state_id", DemoGameStateID,
			"player_id", DemoPlayerID,
		)
	}
	return nil
}

func seedGameState(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	const q = `
		INSERT INTO game_states (id, player_id, money, xp, upgrades, seed)
		VALUES ($1, $2, $3, '{}'::jsonb, '[]'::jsonb, $4)
		ON CONFLICT (id) DO NOTHING`

	res, err := db.ExecContext(ctx, q, DemoGameStateID, DemoPlayerID, 100.0, demoSeed)
	if err != nil {
		return fmt.Errorf("seed game state: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 && logger != nil {
		logger.InfoContext(ctx, "seeded game state", "id", DemoGameStateID)
	}
	return nil
}

func seedEmployees(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	const q = `
		INSERT INTO employees (id, game_state_id, name, lat, lon, driving_level, vehicle_class, max_speed_kmh)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`

	seeded := 0
	for _, e := range demoEmployees {
		res, err := db.ExecContext(ctx, q,
			e.id, DemoGameStateID, e.name, e.lat, e.lon,
			e.drivingLevel, e.vehicleClass, e.maxSpeedKMH,
		)
		if err != nil {
			return fmt.Errorf("seed employee %s: %w", e.name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			seeded++
		}
	}
	if seeded > 0 && logger != nil {
		logger.InfoContext(ctx, "seeded employees", "count", seeded)
	}
	return nil
}

func seedJobs(ctx context.Context, svcs Services, logger *slog.Logger) error {
	// Only top up when the region is empty; generated ids are random, so an
	// unconditional insert would pile up duplicates on reseed.
	region := geo.BoundingBox{South: 51.95, West: 4.95, North: 52.25, East: 5.35}
	count, err := svcs.jobs.CountInBounds(ctx, region)
	if err != nil {
		return fmt.Errorf("count jobs: %w", err)
	}
	if count > 0 {
		if logger != nil {
			logger.InfoContext(ctx, "jobs already present; skipping job seed",
				"region", demoRegionKey, "count", count)
		}
		return nil
	}

	batch := svcs.gen.Batch(demoSeed, demoJobCount, time.Now())
	if err := svcs.jobs.Insert(ctx, batch); err != nil {
		return fmt.Errorf("seed jobs: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "seeded jobs", "count", len(batch), "region", demoRegionKey)
	}
	return nil
}
