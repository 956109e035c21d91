package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// EmployeeRouteKey derives the traveler-specific cache key.
func EmployeeRouteKey(employeeID string, origin, dest geo.Coordinate) string {
	return fmt.Sprintf("route:emp:%s:%s:%s", employeeID, origin.String(), dest.String())
}

// SharedRouteKey derives the anonymous (origin, destination) cache key.
func SharedRouteKey(origin, dest geo.Coordinate) string {
	return fmt.Sprintf("route:shared:%s:%s", origin.String(), dest.String())
}

type memoryEntry struct {
	route     *model.Route
	expiresAt time.Time
}

// MemoryRouteCache is the in-process route cache tier: a mutex-guarded map
// with per-entry TTL. Constructed at startup and injected; never ambient
// global state.
type MemoryRouteCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryRouteCache creates a MemoryRouteCache. A zero ttl means entries
// never expire.
func NewMemoryRouteCache(ttl time.Duration) *MemoryRouteCache {
	return &MemoryRouteCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get implements RouteCache. Expired entries behave as misses and are
// dropped lazily.
func (c *MemoryRouteCache) Get(_ context.Context, key string) (*model.Route, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		// re-check under the write lock; a concurrent Put may have refreshed it
		if cur, still := c.entries[key]; still && !cur.expiresAt.IsZero() && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.route, true, nil
}

// Put implements RouteCache. Overwriting an existing key is always safe.
func (c *MemoryRouteCache) Put(_ context.Context, key string, route *model.Route) error {
	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{route: route, expiresAt: expires}
	c.mu.Unlock()
	return nil
}

// Len returns the number of live entries, counting expired ones not yet
// collected. For metrics and tests.
func (c *MemoryRouteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// KVRouteCache is the shared route cache tier over a byte-value cache
// (Redis in production). Routes are stored as JSON with the repository's TTL.
type KVRouteCache struct {
	cache CacheRepository
	ttl   time.Duration
}

// NewKVRouteCache creates a KVRouteCache with the given TTL.
func NewKVRouteCache(cache CacheRepository, ttl time.Duration) *KVRouteCache {
	return &KVRouteCache{cache: cache, ttl: ttl}
}

// Get implements RouteCache. A corrupt cached value is treated as a miss
// rather than an error: the caller recomputes and Put overwrites the entry.
func (c *KVRouteCache) Get(ctx context.Context, key string) (*model.Route, bool, error) {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("route cache get: %w", err)
	}
	if raw == nil {
		return nil, false, nil
	}
	var route model.Route
	if err := json.Unmarshal(raw, &route); err != nil {
		return nil, false, nil
	}
	return &route, true, nil
}

// Put implements RouteCache.
func (c *KVRouteCache) Put(ctx context.Context, key string, route *model.Route) error {
	raw, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("route cache encode: %w", err)
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		return fmt.Errorf("route cache put: %w", err)
	}
	return nil
}

var (
	_ RouteCache = (*MemoryRouteCache)(nil)
	_ RouteCache = (*KVRouteCache)(nil)
)
