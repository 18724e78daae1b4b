// Package ratelimit caps how many requests a client may make within a
// trailing time window.
//
// Two backends are provided: MemoryLimiter keeps a per-key log of request
// times in process, RedisLimiter keeps the same log in a sorted set so that
// several server replicas share one quota.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAfter is how long until the oldest counted request leaves the
	// window and a slot frees up.
	ResetAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
