// Package cache implements the Redis-backed availability cache. Each
// entry holds the room snapshots returned by one availability query,
// keyed by the query interval and expiring after a configured TTL.
// Booking mutations blow away the whole namespace rather than single
// entries.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mirai2k/booking-app/internal/model"
)

// Availability is the cache-aside layer in front of the room
// availability query. A nil Redis client disables the cache: reads
// miss, writes and invalidations are no-ops. Callers degrade to
// direct record-store reads in that case.
type Availability struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewAvailability returns an Availability cache using the given
// client, key namespace prefix and entry TTL.
func NewAvailability(rdb *redis.Client, prefix string, ttl time.Duration) *Availability {
	return &Availability{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Key builds the cache key for an availability query. The format is
// "<prefix>:<start>-<end>" with both timestamps rendered as RFC3339
// in UTC. Interoperating caches must produce byte-identical keys, so
// the literal forms are fixed here and nowhere else.
func Key(prefix string, start, end time.Time) string {
	return prefix + ":" + start.UTC().Format(time.RFC3339) + "-" + end.UTC().Format(time.RFC3339)
}

// Get returns the cached room list for the interval. The second
// return value reports whether the lookup was a hit. A missing key is
// a miss, not an error.
func (a *Availability) Get(ctx context.Context, start, end time.Time) ([]model.Room, bool, error) {
	if a.rdb == nil {
		return nil, false, nil
	}
	bs, err := a.rdb.Get(ctx, Key(a.prefix, start, end)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var rooms []model.Room
	if err := json.Unmarshal(bs, &rooms); err != nil {
		return nil, false, err
	}
	return rooms, true, nil
}

// Set stores the room list for the interval with the configured TTL.
func (a *Availability) Set(ctx context.Context, start, end time.Time, rooms []model.Room) error {
	if a.rdb == nil {
		return nil
	}
	bs, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	return a.rdb.SetEx(ctx, Key(a.prefix, start, end), bs, a.ttl).Err()
}

// Invalidate deletes every entry in the namespace ("<prefix>:*").
// Invalidation is deliberately prefix-wide: any booking mutation
// invalidates all cached intervals, trading precision for simplicity.
func (a *Availability) Invalidate(ctx context.Context) error {
	if a.rdb == nil {
		return nil
	}
	iter := a.rdb.Scan(ctx, 0, a.prefix+":*", 100).Iterator()
	keys := make([]string, 0, 16)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := a.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return a.rdb.Del(ctx, keys...).Err()
	}
	return nil
}
