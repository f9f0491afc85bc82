package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AIRateLimitMiddleware throttles the LLM-backed endpoints. Every AI call is
// a paid upstream request, so bursts from a misbehaving client are rejected
// here rather than forwarded.
func AIRateLimitMiddleware(requestsPerSecond float64, burst int, logger *zap.Logger) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			logger.Warn("AI request rate limited",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    "RATE_LIMITED",
				"message": "Too many assistant requests, slow down",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
