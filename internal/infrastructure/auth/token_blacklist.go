package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes tokens before their natural expiry. Logout
// blacklists the token's JTI; password changes invalidate every token a
// user holds by timestamp.
type TokenBlacklist interface {
	// Revoke blacklists a token by its JTI until it would have expired
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a token's JTI has been blacklisted
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// InvalidateUser marks all of a user's tokens issued before now as invalid
	InvalidateUser(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserInvalidated reports whether tokens issued at issuedAt are invalid for the user
	IsUserInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const (
	blacklistKeyPrefix     = "auth:blacklist:"
	userInvalidationPrefix = "auth:invalidated:"
	blacklistSentinelValue = "1"
	invalidationTimeLayout = time.RFC3339Nano
)

// RedisTokenBlacklist implements TokenBlacklist backed by Redis
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist creates a Redis-backed token blacklist
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

// Revoke blacklists a token by its JTI
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := blacklistKeyPrefix + jti
	if err := b.client.Set(ctx, key, blacklistSentinelValue, ttl).Err(); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token's JTI has been blacklisted
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := blacklistKeyPrefix + jti
	n, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("checking token blacklist: %w", err)
	}
	return n > 0, nil
}

// InvalidateUser marks all tokens of a user issued before now as invalid
func (b *RedisTokenBlacklist) InvalidateUser(ctx context.Context, userID string, ttl time.Duration) error {
	key := userInvalidationPrefix + userID
	now := time.Now().Format(invalidationTimeLayout)
	if err := b.client.Set(ctx, key, now, ttl).Err(); err != nil {
		return fmt.Errorf("invalidating user tokens: %w", err)
	}
	return nil
}

// IsUserInvalidated reports whether tokens issued at issuedAt are invalid
func (b *RedisTokenBlacklist) IsUserInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	key := userInvalidationPrefix + userID
	val, err := b.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking user invalidation: %w", err)
	}

	invalidatedAt, err := time.Parse(invalidationTimeLayout, val)
	if err != nil {
		return false, fmt.Errorf("parsing invalidation timestamp: %w", err)
	}
	return !issuedAt.After(invalidatedAt), nil
}

// InMemoryTokenBlacklist is a process-local blacklist for tests and
// single-instance deployments without Redis.
type InMemoryTokenBlacklist struct {
	mu          sync.RWMutex
	revoked     map[string]time.Time
	invalidated map[string]time.Time
}

// NewInMemoryTokenBlacklist creates an in-memory token blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revoked:     make(map[string]time.Time),
		invalidated: make(map[string]time.Time),
	}
}

// Revoke blacklists a token by its JTI
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether a token's JTI has been blacklisted
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.RLock()
	expiry, ok := b.revoked[jti]
	b.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		b.mu.Lock()
		delete(b.revoked, jti)
		b.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// InvalidateUser marks all tokens of a user issued before now as invalid
func (b *InMemoryTokenBlacklist) InvalidateUser(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.invalidated[userID] = time.Now()
	return nil
}

// IsUserInvalidated reports whether tokens issued at issuedAt are invalid
func (b *InMemoryTokenBlacklist) IsUserInvalidated(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	invalidatedAt, ok := b.invalidated[userID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(invalidatedAt), nil
}
