package middleware

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"taskclinic/backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit throttles by client IP under the given scope name. A limiter
// error lets the request through.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			log.Printf("⚠️ Rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
