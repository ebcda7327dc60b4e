// Package cache provides time-bounded memoization of resolved role
// assignments, keyed by actor ID.
//
// The cache is read-through from the caller's perspective: a Get past
// the TTL is a miss, and the caller re-resolves from the source of
// truth and repopulates. Writes are last-write-wins; concurrent
// resolutions for the same actor are idempotent, so no coordination is
// needed beyond the store's own locking.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL bounds staleness after role changes: a revocation becomes
// visible within this window, not only at next login.
const DefaultTTL = 5 * time.Minute

// DefaultMaxEntries caps the number of actors memoized at once
const DefaultMaxEntries = 4096

// Cache memoizes values per actor for a fixed TTL
type Cache[V any] interface {
	// Get returns the cached value for the actor, or a miss if absent
	// or past TTL
	Get(ctx context.Context, actorID string) (V, bool)

	// Set stores the value for the actor, restarting its TTL
	Set(ctx context.Context, actorID string, value V)

	// Invalidate evicts a single actor's entry
	Invalidate(ctx context.Context, actorID string)

	// Purge evicts every entry
	Purge(ctx context.Context)
}

// Stats reports cache effectiveness counters
type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Invalidations int64 `json:"invalidations"`
	Len           int   `json:"len"`
}

// Memory is an in-process Cache on an expirable LRU. Entries expire
// TTL after insertion; expired entries are evicted on access.
type Memory[V any] struct {
	lru           *lru.LRU[string, V]
	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
}

// NewMemory creates an in-process cache. Non-positive maxEntries or ttl
// fall back to the defaults.
func NewMemory[V any](maxEntries int, ttl time.Duration) *Memory[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory[V]{
		lru: lru.NewLRU[string, V](maxEntries, nil, ttl),
	}
}

// Get returns the cached value for the actor, or a miss
func (c *Memory[V]) Get(ctx context.Context, actorID string) (V, bool) {
	v, ok := c.lru.Get(actorID)
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return v, true
}

// Set stores the value for the actor, restarting its TTL
func (c *Memory[V]) Set(ctx context.Context, actorID string, value V) {
	c.lru.Add(actorID, value)
}

// Invalidate evicts a single actor's entry
func (c *Memory[V]) Invalidate(ctx context.Context, actorID string) {
	c.lru.Remove(actorID)
	c.invalidations.Add(1)
}

// Purge evicts every entry
func (c *Memory[V]) Purge(ctx context.Context) {
	c.lru.Purge()
	c.invalidations.Add(1)
}

// Stats returns effectiveness counters and the current entry count
func (c *Memory[V]) Stats() Stats {
	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Invalidations: c.invalidations.Load(),
		Len:           c.lru.Len(),
	}
}
