package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nytinsight/internal/ratelimit"
	"nytinsight/internal/transport/http/response"
)

// RateLimit rejects callers that exceed the limiter's budget, keyed by client
// IP. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			requestID, _ := c.Get(RequestIDKey)
			log.Printf("[%v] rate limit check failed: %v", requestID, err)
			c.Next()
			return
		}
		if !allowed {
			response.Abort(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
