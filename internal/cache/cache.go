package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/courtside/internal/availability"
	"github.com/redis/go-redis/v9"
)

// AvailabilityCache keeps computed day availability in Redis for a short TTL.
// Booking events invalidate affected entries; the TTL caps staleness when an
// event is missed.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func key(courtID, date string, duration int) string {
	return fmt.Sprintf("availability:%s:%s:%d", courtID, date, duration)
}

// Get returns the cached result, if any. Redis errors are treated as misses;
// the caller recomputes.
func (c *AvailabilityCache) Get(ctx context.Context, courtID, date string, duration int) (availability.DayAvailability, bool) {
	raw, err := c.rdb.Get(ctx, key(courtID, date, duration)).Result()
	if err != nil {
		return availability.DayAvailability{}, false
	}
	var out availability.DayAvailability
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return availability.DayAvailability{}, false
	}
	return out, true
}

func (c *AvailabilityCache) Set(ctx context.Context, courtID, date string, duration int, v availability.DayAvailability) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(courtID, date, duration), data, c.ttl).Err()
}

// Invalidate drops every cached duration for a court/date. Requested
// durations vary per caller, so the court/date prefix is swept.
func (c *AvailabilityCache) Invalidate(ctx context.Context, courtID, date string) error {
	pattern := fmt.Sprintf("availability:%s:%s:*", courtID, date)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
