package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/infrastructure/cache"
	"github.com/agencyhub/backend/internal/interfaces/http/dto"
)

// RateLimitConfig configures a rate limit middleware instance
type RateLimitConfig struct {
	Limiter   cache.RateLimiter
	Limit     int
	Window    time.Duration
	KeyPrefix string
	// KeyFunc derives the limit key from the request. Defaults to client IP.
	KeyFunc func(c *gin.Context) string
	Logger  *zap.Logger
}

// RateLimit enforces a fixed-window request limit per key. Limiter failures
// let the request through so a cache outage does not take the API down.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		key := config.KeyPrefix + ":" + keyFunc(c)

		decision, err := config.Limiter.Allow(c.Request.Context(), key, config.Limit, config.Window)
		if err != nil {
			if config.Logger != nil {
				config.Logger.Warn("rate limit check failed, allowing request",
					zap.String("key", key),
					zap.Error(err),
				)
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			retryAfter := int(decision.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited, "Too many requests, slow down", GetRequestID(c)))
			return
		}

		c.Next()
	}
}

// APIKeyRateKey keys rate limits by the authenticated API key, falling back
// to client IP before authentication has run.
func APIKeyRateKey(c *gin.Context) string {
	if key, ok := GetAPIKey(c); ok {
		return key.ID.String()
	}
	return c.ClientIP()
}
