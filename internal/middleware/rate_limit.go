package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"github.com/yukikurage/applicant-tracking-api/internal/ratelimit"
	"go.uber.org/zap"
)

// KeyFunc derives the rate limit bucket for a request.
type KeyFunc func(c *gin.Context) string

// ClientIPKey buckets requests by client address.
func ClientIPKey(prefix string) KeyFunc {
	return func(c *gin.Context) string {
		return prefix + ":" + c.ClientIP()
	}
}

// UserKey buckets requests by the authenticated user.
func UserKey(prefix string) KeyFunc {
	return func(c *gin.Context) string {
		userID, _ := GetUserID(c)
		return prefix + ":" + userID
	}
}

// RateLimit rejects requests over the limiter's budget with 429. If the
// limiter itself fails the request is let through.
func RateLimit(limiter ratelimit.Limiter, key KeyFunc, message string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Check(c.Request.Context(), key(c))
		if err != nil {
			logging.FromContext(c.Request.Context(), logger).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(result.ResetSeconds))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(result.ResetSeconds))
			apierrors.TooManyRequests(c, message)
			return
		}
		c.Next()
	}
}
