package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// GameStateFixture describes a seeded game state row.
type GameStateFixture struct {
	ID       string
	PlayerID string
	Money    float64
	Seed     int64
}

// SeedGameState inserts a game state row and returns its id.
func SeedGameState(t TestingTB, db *sql.DB, f GameStateFixture) string {
	t.Helper()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.PlayerID == "" {
		f.PlayerID = "player-" + f.ID[:8]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, `
		INSERT INTO game_states (id, player_id, money, xp, upgrades, seed)
		VALUES ($1, $2, $3, '{}'::jsonb, '[]'::jsonb, $4)`,
		f.ID, f.PlayerID, f.Money, f.Seed,
	)
	if err != nil {
		t.Fatalf("Failed to seed game state: %v", err)
	}
	return f.ID
}

// EmployeeFixture describes a seeded employee row.
type EmployeeFixture struct {
	ID           string
	GameStateID  string
	Name         string
	Lat, Lon     float64
	DrivingLevel int
	VehicleClass int
	MaxSpeedKMH  float64
}

// SeedEmployee inserts an employee row and returns its id.
func SeedEmployee(t TestingTB, db *sql.DB, f EmployeeFixture) string {
	t.Helper()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Name == "" {
		f.Name = "employee-" + f.ID[:8]
	}
	if f.MaxSpeedKMH == 0 {
		f.MaxSpeedKMH = 50
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, `
		INSERT INTO employees (id, game_state_id, name, lat, lon, driving_level, vehicle_class, max_speed_kmh)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.GameStateID, f.Name, f.Lat, f.Lon, f.DrivingLevel, f.VehicleClass, f.MaxSpeedKMH,
	)
	if err != nil {
		t.Fatalf("Failed to seed employee: %v", err)
	}
	return f.ID
}

// JobFixture describes a seeded job row.
type JobFixture struct {
	ID          string
	Lat, Lon    float64
	Category    int
	Tier        int
	RewardBasis float64
	DistanceM   float64
	CreatedAt   time.Time
}

// SeedJob inserts a job row and returns its id. A zero CreatedAt leaves the
// column default in place.
func SeedJob(t TestingTB, db *sql.DB, f JobFixture) string {
	t.Helper()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Tier == 0 {
		f.Tier = 1
	}
	if f.DistanceM == 0 {
		f.DistanceM = 1000
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	if f.CreatedAt.IsZero() {
		_, err = db.ExecContext(ctx, `
			INSERT INTO jobs (id, lat, lon, category, tier, reward_basis, distance_m)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			f.ID, f.Lat, f.Lon, f.Category, f.Tier, f.RewardBasis, f.DistanceM,
		)
	} else {
		_, err = db.ExecContext(ctx, `
			INSERT INTO jobs (id, lat, lon, category, tier, reward_basis, distance_m, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			f.ID, f.Lat, f.Lon, f.Category, f.Tier, f.RewardBasis, f.DistanceM, f.CreatedAt,
		)
	}
	if err != nil {
		t.Fatalf("Failed to seed job: %v", err)
	}
	return f.ID
}
