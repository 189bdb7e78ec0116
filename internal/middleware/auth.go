package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
)

// RequireAuth checks the session for a user and an active organization
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		userID, _ := session.Get(constants.ContextKeyUserID).(string)
		if userID == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		orgID, _ := session.Get(constants.ContextKeyOrganizationID).(string)
		if orgID == "" {
			apierrors.Forbidden(c, "No active organization")
			return
		}

		// Store IDs in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyOrganizationID, orgID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	return contextString(c, constants.ContextKeyUserID)
}

// GetOrganizationID retrieves the active organization ID from context
func GetOrganizationID(c *gin.Context) (string, bool) {
	return contextString(c, constants.ContextKeyOrganizationID)
}

func contextString(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
