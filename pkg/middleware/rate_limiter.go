package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"docuvault/pkg/auth"
)

// RateLimiterConfig configures the fixed-window rate limiter.
type RateLimiterConfig struct {
	RedisClient *redis.Client
	MaxRequests int           // per window
	Window      time.Duration
	KeyPrefix   string
}

// RateLimiter limits requests per (tenant, user) using a Redis counter.
func RateLimiter(config RateLimiterConfig) gin.HandlerFunc {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit"
	}
	if config.MaxRequests == 0 {
		config.MaxRequests = 100
	}
	if config.Window == 0 {
		config.Window = time.Minute
	}

	return func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c.Request.Context())
		if !ok {
			// Unauthenticated paths (health, metrics) are not limited.
			c.Next()
			return
		}
		key := fmt.Sprintf("%s:%s:%s", config.KeyPrefix, id.TenantID, id.UserID)

		ctx := c.Request.Context()
		pipe := config.RedisClient.Pipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, config.Window)
		if _, err := pipe.Exec(ctx); err != nil {
			// A broken limiter must not take the API down with it.
			c.Next()
			return
		}

		count := incr.Val()
		remaining := config.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", config.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(config.Window).Unix()))

		if count > int64(config.MaxRequests) {
			c.JSON(429, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": config.Window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
