package cache

import (
	"context"
	"encoding/json"
	"time"

	"glowslot/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Availability caches resolved availability per date. Cache problems
// never surface: a miss just recomputes, a failed write is dropped.
type Availability struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// New creates a cache over an established redis client.
func New(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *Availability {
	return &Availability{rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(date string) string {
	return "availability:" + date
}

// Get loads the cached availability for a date into out. Returns false
// on miss or any cache error.
func (c *Availability) Get(ctx context.Context, date string, out any) bool {
	data, err := c.rdb.Get(ctx, cacheKey(date)).Bytes()
	if err == redis.Nil {
		metrics.IncCacheLookup("miss")
		return false
	}
	if err != nil {
		metrics.IncCacheLookup("error")
		c.log.Warn().Err(err).Str("date", date).Msg("availability cache read failed")
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		metrics.IncCacheLookup("error")
		return false
	}
	metrics.IncCacheLookup("hit")
	return true
}

// Set stores the availability for a date with the configured TTL.
func (c *Availability) Set(ctx context.Context, date string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(date), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("date", date).Msg("availability cache write failed")
	}
}

// Invalidate drops the cached entry for a date. Called after every
// booking or closure mutation so the next read observes the change.
func (c *Availability) Invalidate(ctx context.Context, date string) {
	if err := c.rdb.Del(ctx, cacheKey(date)).Err(); err != nil {
		c.log.Warn().Err(err).Str("date", date).Msg("availability cache invalidation failed")
	}
}

// InvalidateAll drops every cached date. Template edits reshape whole
// weekdays, so the per-date key cannot cover them.
func (c *Availability) InvalidateAll(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, cacheKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", iter.Val()).Msg("availability cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn().Err(err).Msg("availability cache scan failed")
	}
}
