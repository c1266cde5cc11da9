package cache

import (
	"context"
	"time"
)

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter counts requests per key over a fixed window. Keys are
// caller-defined (client IP, API key ID) so one limiter can serve
// several limits with different key prefixes.
type RateLimiter interface {
	// Allow records one request against the key and reports whether it
	// fits within limit requests per window
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}
