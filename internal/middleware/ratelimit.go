package middleware

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// WindowCounter counts hits in a fixed window. cache.RedisCache satisfies it.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	Prefix string
}

// RateLimit allows Limit requests per client IP per Window. When the counter
// store fails the request is let through.
func RateLimit(counter WindowCounter, config RateLimitConfig) gin.HandlerFunc {
	prefix := config.Prefix
	if prefix == "" {
		prefix = "ratelimit"
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s:%s", prefix, c.FullPath(), c.ClientIP())

		count, ttl, err := counter.IncrWindow(c.Request.Context(), key, config.Window)
		if err != nil {
			log.Printf("[ratelimit] counter unavailable, allowing %s: %v", key, err)
			c.Next()
			return
		}

		remaining := int64(config.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(config.Limit) {
			retryAfter := int(math.Ceil(ttl.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests",
			})
			return
		}

		c.Next()
	}
}
