package cache

import (
	"context"
	"sync"
	"time"
)

type windowCounter struct {
	start time.Time
	count int
}

// InMemoryRateLimiter implements RateLimiter with per-process counters.
// Suitable for single-instance deployments and testing; counters are
// not shared across processes.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*windowCounter
	now     func() time.Time
}

// NewInMemoryRateLimiter creates an in-memory rate limiter
func NewInMemoryRateLimiter() *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		windows: make(map[string]*windowCounter),
		now:     time.Now,
	}
}

// Allow records one request against the key within the current fixed window
func (l *InMemoryRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Truncate(window)

	w, ok := l.windows[key]
	if !ok || w.start.Before(windowStart) {
		w = &windowCounter{start: windowStart}
		l.windows[key] = w
	}
	w.count++

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}

	decision := Decision{
		Allowed:   w.count <= limit,
		Remaining: remaining,
	}
	if !decision.Allowed {
		decision.RetryAfter = windowStart.Add(window).Sub(now)
	}
	return decision, nil
}

var _ RateLimiter = (*InMemoryRateLimiter)(nil)
