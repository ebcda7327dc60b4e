package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis is a Cache backed by a Redis instance, for deployments where
// several processes should share one staleness window. Values are
// stored as JSON with a server-side TTL; Redis unavailability degrades
// to misses rather than failures, since the caller re-resolves from the
// source of truth on any miss.
type Redis[V any] struct {
	client        *redis.Client
	prefix        string
	ttl           time.Duration
	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
}

// NewRedis creates a Redis-backed cache. Non-positive ttl falls back to
// DefaultTTL.
func NewRedis[V any](client *redis.Client, prefix string, ttl time.Duration) *Redis[V] {
	if prefix == "" {
		prefix = "ams:assignments:"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis[V]{client: client, prefix: prefix, ttl: ttl}
}

func (c *Redis[V]) key(actorID string) string { return c.prefix + actorID }

// Get returns the cached value for the actor, or a miss
func (c *Redis[V]) Get(ctx context.Context, actorID string) (V, bool) {
	var zero V
	data, err := c.client.Get(ctx, c.key(actorID)).Bytes()
	if err != nil {
		c.misses.Add(1)
		return zero, false
	}
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		// Corrupt entry: drop it and miss.
		c.client.Del(ctx, c.key(actorID))
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return v, true
}

// Set stores the value for the actor, restarting its TTL
func (c *Redis[V]) Set(ctx context.Context, actorID string, value V) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(actorID), data, c.ttl)
}

// Invalidate evicts a single actor's entry
func (c *Redis[V]) Invalidate(ctx context.Context, actorID string) {
	c.client.Del(ctx, c.key(actorID))
	c.invalidations.Add(1)
}

// Purge evicts every entry under this cache's prefix
func (c *Redis[V]) Purge(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	c.invalidations.Add(1)
}

// Stats returns effectiveness counters. Len is not tracked for Redis.
func (c *Redis[V]) Stats() Stats {
	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Invalidations: c.invalidations.Load(),
	}
}
