// Package core defines the ports of the routing game engine. The core owns
// the interfaces; the data layer and adapters provide implementations.
package core

import (
	"context"
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// GameStateRepository persists per-player economy records. All monetary and
// XP mutations are single conditional statements evaluated by the storage
// layer so concurrent writers never lose an update.
type GameStateRepository interface {
	// GetByID fetches a game state with its XP map and purchased upgrades.
	GetByID(ctx context.Context, id string) (*model.GameState, error)

	// ApplyDelta atomically adds delta.Money to the record's money and folds
	// delta.XP into the category XP map (missing keys start from zero).
	ApplyDelta(ctx context.Context, id string, delta model.EconomyDelta) (*model.GameState, error)

	// PurchaseUpgrade atomically deducts cost and appends the upgrade id to
	// the purchased set, guarded by money >= cost and id not yet present.
	// Returns false with no error when the guard fails (caller re-reads to
	// classify), true on success.
	PurchaseUpgrade(ctx context.Context, id, upgradeID string, cost float64) (*model.GameState, bool, error)
}

// EmployeeRepository persists employees.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	ListByGameState(ctx context.Context, gameStateID string) ([]*model.Employee, error)
}

// JobQuery bundles parameters for spatial job lookups.
type JobQuery struct {
	Limit int
}

// JobRepository serves the immutable generated jobs.
type JobRepository interface {
	GetByID(ctx context.Context, id string) (*model.Job, error)

	// ListInBounds returns jobs inside the bounding box ordered by
	// descending distance metric, capped at q.Limit.
	ListInBounds(ctx context.Context, box geo.BoundingBox, q JobQuery) ([]*model.Job, error)

	// ListNearestByTier returns the closest jobs of exactly the given tier,
	// ordered by ascending distance from origin, capped at q.Limit.
	ListNearestByTier(ctx context.Context, origin geo.Coordinate, tier int, q JobQuery) ([]*model.Job, error)

	// Insert adds generated jobs. Used by the job generator, not the core flows.
	Insert(ctx context.Context, jobs []*model.Job) error

	// DeleteOlderThan prunes stale generated jobs without active assignments.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// CountInBounds reports how many jobs currently sit inside the box.
	CountInBounds(ctx context.Context, box geo.BoundingBox) (int64, error)
}

// ActiveJobRepository persists in-progress assignments. The one-active-job-
// per-employee invariant is enforced by a storage-level unique constraint;
// Create surfaces a violation as a Conflict error.
type ActiveJobRepository interface {
	Create(ctx context.Context, active *model.ActiveJob) (*model.ActiveJob, error)
	GetByID(ctx context.Context, id string) (*model.ActiveJob, error)
	GetByEmployee(ctx context.Context, employeeID string) (*model.ActiveJob, error)
	ListByGameState(ctx context.Context, gameStateID string) ([]*model.ActiveJob, error)

	// Start sets started_at if and only if it is still null, and returns the
	// row either way. Calling it twice is harmless and keeps the first
	// timestamp for elapsed-time calculations.
	Start(ctx context.Context, id string, now time.Time) (*model.ActiveJob, error)

	// Delete removes an assignment without touching the economy record.
	Delete(ctx context.Context, id string) error

	// CompleteAndRelocate deletes the assignment and moves its employee to
	// the destination in one storage transaction.
	CompleteAndRelocate(ctx context.Context, id string, employeeID string, dest geo.Coordinate) error
}

// RoutePlanner is the external routing collaborator. It is fallible and
// must be called under a bounded timeout; implementations return a NoRoute
// error when no path exists within the search radius and an Upstream error
// for transport failures.
type RoutePlanner interface {
	ShortestPath(ctx context.Context, origin, dest geo.Coordinate) (*model.Route, error)
}

// CacheRepository is the shared byte-value cache port (Redis-backed in
// production). A nil value with nil error on Get means a miss.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
	Health(ctx context.Context) error
}

// RouteCache is the cache-aside contract both route-cache tiers share.
// Get returns (route, true) on a hit; an expired or absent key is a miss,
// never an error. Put is idempotent: overwriting a key with a fresher route
// is always safe. The cache never computes routes itself.
type RouteCache interface {
	Get(ctx context.Context, key string) (*model.Route, bool, error)
	Put(ctx context.Context, key string, route *model.Route) error
}
