package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	"github.com/yukikurage/applicant-tracking-api/internal/database"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequireDocumentAccess loads the document named by :id from the active
// organization. Documents of other organizations look absent.
func RequireDocumentAccess(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := GetOrganizationID(c)
		if !ok {
			apierrors.Forbidden(c, "No active organization")
			return
		}

		var doc models.Document
		err := database.GetDB().WithContext(c.Request.Context()).
			Where("id = ? AND organization_id = ?", c.Param("id"), orgID).
			First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Document not found")
			return
		}
		if err != nil {
			logging.FromContext(c.Request.Context(), logger).Error("failed to load document", zap.Error(err))
			apierrors.InternalError(c, "Failed to process document")
			return
		}

		c.Set(constants.ContextKeyDocument, &doc)
		c.Next()
	}
}

// GetDocument retrieves the document loaded by RequireDocumentAccess
func GetDocument(c *gin.Context) (*models.Document, bool) {
	value, exists := c.Get(constants.ContextKeyDocument)
	if !exists {
		return nil, false
	}
	doc, ok := value.(*models.Document)
	return doc, ok
}
