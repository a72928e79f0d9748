package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter backed by a shared Redis counter, for
// deployments running more than one API replica.
type Redis struct {
	client *redis.Client
	max    int
	window time.Duration
	now    func() time.Time
}

// NewRedis creates a Redis-backed limiter allowing max requests per window.
// now is the clock; pass nil for time.Now.
func NewRedis(client *redis.Client, max int, window time.Duration, now func() time.Time) *Redis {
	if now == nil {
		now = time.Now
	}
	return &Redis{client: client, max: max, window: window, now: now}
}

// Allow increments key's window counter, setting the expiry when the key is
// first created. The INCR result is authoritative, so two racing requests
// cannot both claim the last slot.
func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := "ratelimit:" + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: incr %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit: expire %s: %w", redisKey, err)
		}
	}

	ttl, err := r.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = r.window
	}
	resetAt := r.now().Add(ttl)

	if count > int64(r.max) {
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	return Result{Allowed: true, Remaining: r.max - int(count), ResetAt: resetAt}, nil
}
