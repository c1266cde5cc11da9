package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// RedisRateLimiter implements RateLimiter with a fixed window counter
// in Redis. Counters are shared across instances, so the limit holds
// for the whole deployment rather than per process.
type RedisRateLimiter struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateLimiter creates a rate limiter on an existing Redis client
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		keyPrefix: rateLimitKeyPrefix,
	}
}

// Allow increments the window counter for the key and checks it against
// the limit. INCR and EXPIRE run in one pipeline; the expiry is set only
// when the key is new, so the window does not slide.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	windowStart := time.Now().Truncate(window)
	redisKey := fmt.Sprintf("%s%s:%d", l.keyPrefix, key, windowStart.Unix())

	pipe := l.client.Pipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to check rate limit: %w", err)
	}

	used := count.Val()
	remaining := int64(limit) - used
	if remaining < 0 {
		remaining = 0
	}

	decision := Decision{
		Allowed:   used <= int64(limit),
		Remaining: int(remaining),
	}
	if !decision.Allowed {
		decision.RetryAfter = time.Until(windowStart.Add(window))
	}
	return decision, nil
}

var _ RateLimiter = (*RedisRateLimiter)(nil)
