package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssignment struct {
	Role  string `json:"role"`
	State string `json:"state,omitempty"`
}

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[[]fakeAssignment](16, time.Minute)

	_, ok := c.Get(ctx, "m-1")
	assert.False(t, ok)

	want := []fakeAssignment{{Role: "state_admin", State: "CA"}}
	c.Set(ctx, "m-1", want)

	got, ok := c.Get(ctx, "m-1")
	require.True(t, ok)
	assert.Equal(t, want, got)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Len)
}

func TestMemory_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[[]fakeAssignment](16, 30*time.Millisecond)

	c.Set(ctx, "m-1", []fakeAssignment{{Role: "member"}})
	_, ok := c.Get(ctx, "m-1")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)

	_, ok = c.Get(ctx, "m-1")
	assert.False(t, ok, "entry past TTL behaves as a miss")
	assert.Equal(t, 0, c.Stats().Len, "stale entry is evicted")
}

func TestMemory_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[[]fakeAssignment](16, time.Minute)

	c.Set(ctx, "m-1", []fakeAssignment{{Role: "member"}})
	c.Set(ctx, "m-2", []fakeAssignment{{Role: "member"}})

	c.Invalidate(ctx, "m-1")
	_, ok := c.Get(ctx, "m-1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "m-2")
	assert.True(t, ok)

	c.Purge(ctx)
	_, ok = c.Get(ctx, "m-2")
	assert.False(t, ok)

	assert.Equal(t, int64(2), c.Stats().Invalidations, "Invalidate and Purge both count")
}

func newTestRedis(t *testing.T) (*Redis[[]fakeAssignment], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis[[]fakeAssignment](client, "test:assignments:", time.Minute), mr
}

func TestRedis_SetGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	_, ok := c.Get(ctx, "m-1")
	assert.False(t, ok)

	want := []fakeAssignment{{Role: "chapter_admin"}}
	c.Set(ctx, "m-1", want)

	got, ok := c.Get(ctx, "m-1")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedis_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	c.Set(ctx, "m-1", []fakeAssignment{{Role: "member"}})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "m-1")
	assert.False(t, ok)
}

func TestRedis_InvalidateAndPurge(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	c.Set(ctx, "m-1", []fakeAssignment{{Role: "member"}})
	c.Set(ctx, "m-2", []fakeAssignment{{Role: "member"}})

	c.Invalidate(ctx, "m-1")
	_, ok := c.Get(ctx, "m-1")
	assert.False(t, ok)

	c.Purge(ctx)
	_, ok = c.Get(ctx, "m-2")
	assert.False(t, ok)
}

func TestRedis_CorruptEntryIsDropped(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	require.NoError(t, mr.Set("test:assignments:m-1", "{not json"))

	_, ok := c.Get(ctx, "m-1")
	assert.False(t, ok)
	assert.False(t, mr.Exists("test:assignments:m-1"))
}
