package authz

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/chapterhq/ams/pkg/authz/cache"
)

// ResolveFunc is the source-of-truth lookup for an actor's role
// assignments, supplied by the persistence layer.
type ResolveFunc func(ctx context.Context, actorID string) ([]RoleAssignment, error)

// Resolver combines the assignment cache with the source-of-truth
// lookup. Cache misses are resolved through a singleflight group so
// that a burst of checks for one actor triggers a single resolution;
// duplicate resolutions would be harmless but wasteful, since role
// resolution may join across member and chapter tables.
type Resolver struct {
	cache   cache.Cache[[]RoleAssignment]
	resolve ResolveFunc
	group   singleflight.Group
}

// NewResolver creates a resolver over the given cache and lookup
func NewResolver(c cache.Cache[[]RoleAssignment], resolve ResolveFunc) *Resolver {
	return &Resolver{cache: c, resolve: resolve}
}

// Assignments returns the actor's assignments, from cache when fresh
func (r *Resolver) Assignments(ctx context.Context, actorID string) ([]RoleAssignment, error) {
	if assignments, ok := r.cache.Get(ctx, actorID); ok {
		return assignments, nil
	}

	v, err, _ := r.group.Do(actorID, func() (interface{}, error) {
		assignments, err := r.resolve(ctx, actorID)
		if err != nil {
			return nil, err
		}
		r.cache.Set(ctx, actorID, assignments)
		return assignments, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]RoleAssignment), nil
}

// Invalidate evicts one actor's cached assignments, forcing the next
// check to hit the source of truth. Call after role changes that must
// be visible before the TTL elapses.
func (r *Resolver) Invalidate(ctx context.Context, actorID string) {
	r.cache.Invalidate(ctx, actorID)
}

// InvalidateAll evicts every cached actor
func (r *Resolver) InvalidateAll(ctx context.Context) {
	r.cache.Purge(ctx)
}
