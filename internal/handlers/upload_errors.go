package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
	"github.com/yukikurage/applicant-tracking-api/internal/intake"
	"github.com/yukikurage/applicant-tracking-api/internal/services"
)

// respondUploadError answers the file rules shared by public applications and
// recruiter uploads. It reports whether err was one of them.
func respondUploadError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, intake.ErrFileTooLarge):
		apierrors.PayloadTooLarge(c, fmt.Sprintf("File too large. Maximum size is %d MB", constants.MaxFileSize>>20))
	case errors.Is(err, intake.ErrUnsupportedFileType):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFileType, "Invalid file type. Allowed: PDF, DOC, DOCX")
	case errors.Is(err, services.ErrDocumentLimitExceeded):
		apierrors.Conflict(c, fmt.Sprintf("Document limit reached. Maximum %d documents per candidate", constants.MaxDocumentsPerCandidate))
	default:
		return false
	}
	return true
}
