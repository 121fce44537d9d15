package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	AllSlots    []string `json:"allSlots"`
	AllDisabled []string `json:"allDisabled"`
}

func newTestCache(t *testing.T) (*Availability, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, time.Minute, zerolog.Nop()), mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var out payload
	assert.False(t, c.Get(ctx, "2025-06-04", &out), "cold cache misses")

	in := payload{AllSlots: []string{"09:40", "13:00"}, AllDisabled: []string{"13:00"}}
	c.Set(ctx, "2025-06-04", in)

	require.True(t, c.Get(ctx, "2025-06-04", &out))
	assert.Equal(t, in, out)
}

func TestCacheKeysScopedPerDate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "2025-06-04", payload{AllSlots: []string{"09:40"}})

	var out payload
	assert.False(t, c.Get(ctx, "2025-06-05", &out))
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "2025-06-04", payload{AllSlots: []string{"09:40"}})
	c.Invalidate(ctx, "2025-06-04")

	var out payload
	assert.False(t, c.Get(ctx, "2025-06-04", &out))
}

func TestCacheInvalidateAll(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "2025-06-04", payload{AllSlots: []string{"09:40"}})
	c.Set(ctx, "2025-06-05", payload{AllSlots: []string{"13:00"}})
	require.NoError(t, mr.Set("unrelated", "keep"))

	c.InvalidateAll(ctx)

	var out payload
	assert.False(t, c.Get(ctx, "2025-06-04", &out))
	assert.False(t, c.Get(ctx, "2025-06-05", &out))

	kept, err := mr.Get("unrelated")
	require.NoError(t, err)
	assert.Equal(t, "keep", kept, "only availability keys are flushed")
}

func TestCacheTTLExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "2025-06-04", payload{AllSlots: []string{"09:40"}})
	mr.FastForward(2 * time.Minute)

	var out payload
	assert.False(t, c.Get(ctx, "2025-06-04", &out))
}

func TestCacheDownDegradesToMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "2025-06-04", payload{AllSlots: []string{"09:40"}})
	mr.Close()

	var out payload
	assert.False(t, c.Get(ctx, "2025-06-04", &out))
	// Writes and invalidations must not panic either.
	c.Set(ctx, "2025-06-04", payload{})
	c.Invalidate(ctx, "2025-06-04")
	c.InvalidateAll(ctx)
}
