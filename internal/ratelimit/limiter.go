// Package ratelimit throttles requests per client key. A Redis fixed
// window is shared across instances; a local token bucket takes over while
// Redis is unreachable.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
