package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	"github.com/yukikurage/applicant-tracking-api/internal/dto"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
	"github.com/yukikurage/applicant-tracking-api/internal/intake"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"github.com/yukikurage/applicant-tracking-api/internal/services"
	"go.uber.org/zap"
)

// PublicApplicationHandler serves the unauthenticated job page and application form.
type PublicApplicationHandler struct {
	intakeService   *services.IntakeService
	jobService      *services.JobService
	maxRequestBytes int64
	logger          *zap.Logger
}

// NewPublicApplicationHandler creates a new PublicApplicationHandler
func NewPublicApplicationHandler(intakeService *services.IntakeService, jobService *services.JobService, maxRequestBytes int64, logger *zap.Logger) *PublicApplicationHandler {
	return &PublicApplicationHandler{
		intakeService:   intakeService,
		jobService:      jobService,
		maxRequestBytes: maxRequestBytes,
		logger:          logger,
	}
}

// GetJob returns an open job and its questions.
func (h *PublicApplicationHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetPublicJob(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondIntakeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPublicJobDTO(*job))
}

// Apply accepts a JSON or multipart application for an open job.
func (h *PublicApplicationHandler) Apply(c *gin.Context) {
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxRequestBytes)
	sub, err := intake.ParseSubmission(c.Request, intake.ParseOptions{
		MaxFileSize:  constants.MaxFileSize,
		MaxFieldSize: constants.MaxTextFieldSize,
	})
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	// Bots get the same answer as people whatever the slug, and nothing is stored.
	if sub.IsSpam() {
		logging.FromContext(ctx, h.logger).Info("honeypot triggered", zap.String("slug", c.Param("slug")))
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	job, err := h.intakeService.ResolveJob(ctx, c.Param("slug"))
	if err != nil {
		h.respondIntakeError(c, err)
		return
	}

	if _, err := h.intakeService.Submit(ctx, job, sub); err != nil {
		h.respondIntakeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func respondSubmissionError(c *gin.Context, err error) {
	var missingField *intake.MissingFieldError
	var invalidField *intake.InvalidFieldError

	switch {
	case errors.As(err, &missingField):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeMissingField, missingField.Error())
	case errors.As(err, &invalidField):
		apierrors.BadRequest(c, invalidField.Error())
	case errors.Is(err, intake.ErrBodyTooLarge), errors.Is(err, intake.ErrFieldTooLarge):
		apierrors.PayloadTooLarge(c, "Request body too large")
	case errors.Is(err, intake.ErrEmptyForm):
		apierrors.BadRequest(c, "No form data received")
	case errors.Is(err, intake.ErrInvalidResponses):
		apierrors.BadRequest(c, "Invalid responses format")
	default:
		apierrors.BadRequest(c, "Invalid request body")
	}
}

func (h *PublicApplicationHandler) respondIntakeError(c *gin.Context, err error) {
	if respondUploadError(c, err) {
		return
	}

	var missing *intake.MissingAnswersError

	switch {
	case errors.Is(err, services.ErrJobNotAcceptingApplications):
		apierrors.NotFound(c, "Job not found or not accepting applications")
	case errors.Is(err, services.ErrOrganizationReadOnly):
		apierrors.PreviewReadOnly(c)
	case errors.As(err, &missing):
		apierrors.UnprocessableEntityWithDetails(c, apierrors.ErrCodeMissingAnswers, missing.Error(), gin.H{
			"missing": missing.Labels,
		})
	case errors.Is(err, services.ErrDuplicateApplication):
		apierrors.Conflict(c, "You have already applied to this position")
	default:
		logging.FromContext(c.Request.Context(), h.logger).Error("application submission failed", zap.Error(err))
		apierrors.InternalError(c, "Failed to submit application")
	}
}
