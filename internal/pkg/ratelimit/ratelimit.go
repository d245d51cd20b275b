package ratelimit

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brightnest/cleaning-booking-backend/internal/pkg/logging"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Middleware limits requests per client IP under the given scope.
// When the limiter itself fails the request is let through.
func Middleware(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logging.FromContext(c).Warn("rate limiter error, allowing request", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			logging.FromContext(c).Warn("rate limit exceeded", zap.String("scope", scope), zap.String("ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please try again later"})
			return
		}
		c.Next()
	}
}
