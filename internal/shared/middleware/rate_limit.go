package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/shared/response"
	"realestate-backend/pkg/cache"
)

// RateLimit allows limit requests per client IP per window using a fixed
// window counter.
func RateLimit(counter cache.Cache, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", name, GetClientIP(c))

		count, err := counter.IncrementWindow(ctx, key, window)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			if ttl, err := counter.TTL(ctx, key); err == nil && ttl > 0 {
				c.Header("Retry-After", strconv.Itoa(int(ttl.Round(time.Second)/time.Second)))
			}
			response.AbortWithError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later")
			return
		}

		c.Next()
	}
}
