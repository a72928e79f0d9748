// Package ratelimit caps accepted requests per client within a fixed time
// window. The in-memory limiter is the default; the Redis limiter shares
// counters across instances for multi-replica deployments.
package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of a limiter check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether a request from the given client key may proceed,
// consuming one slot from the client's window when it does.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
