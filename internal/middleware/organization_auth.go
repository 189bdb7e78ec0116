package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	"github.com/yukikurage/applicant-tracking-api/internal/database"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
)

// ReadOnlyChecker decides whether an organization rejects writes.
type ReadOnlyChecker interface {
	IsReadOnly(org *models.Organization) bool
}

// RequireActiveOrganization confirms the user still belongs to the session's
// organization and stores it in context. Must run after RequireAuth.
func RequireActiveOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		orgID, ok := GetOrganizationID(c)
		if !ok {
			apierrors.Forbidden(c, "No active organization")
			return
		}

		var member models.OrganizationMember
		err := database.GetDB().WithContext(c.Request.Context()).
			Preload("Organization").
			Where("organization_id = ? AND user_id = ?", orgID, userID).
			First(&member).Error
		if err != nil || member.Organization == nil {
			apierrors.Forbidden(c, "No active organization")
			return
		}

		c.Set(constants.ContextKeyOrganization, member.Organization)
		c.Next()
	}
}

// RejectReadOnlyWrites blocks mutating requests against read-only organizations.
func RejectReadOnlyWrites(checker ReadOnlyChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		if org, ok := GetOrganization(c); ok && checker.IsReadOnly(org) {
			apierrors.PreviewReadOnly(c)
			return
		}
		c.Next()
	}
}

// GetOrganization retrieves the organization loaded by RequireActiveOrganization
func GetOrganization(c *gin.Context) (*models.Organization, bool) {
	value, exists := c.Get(constants.ContextKeyOrganization)
	if !exists {
		return nil, false
	}
	org, ok := value.(*models.Organization)
	return org, ok
}
