package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"github.com/yukikurage/applicant-tracking-api/internal/middleware"
	"github.com/yukikurage/applicant-tracking-api/internal/services"
	"go.uber.org/zap"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
	authService     *services.AuthService
	logger          *zap.Logger
}

func NewFeedbackHandler(feedbackService *services.FeedbackService, authService *services.AuthService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		authService:     authService,
		logger:          logger,
	}
}

// SubmitFeedback handles POST /api/feedback by filing a GitHub issue.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	if !h.feedbackService.Enabled() {
		apierrors.ServiceUnavailable(c, "Feedback is not configured")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var input services.FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid feedback payload", err.Error())
		return
	}
	if err := h.feedbackService.Validate(input); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	issueURL, err := h.feedbackService.Submit(c.Request.Context(), services.Reporter{
		Name:  user.Name,
		Email: user.Email,
	}, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFeedbackTooLarge):
			apierrors.PayloadTooLarge(c, "Feedback is too large. Try removing the screenshot")
		case errors.Is(err, services.ErrFeedbackNotConfigured):
			apierrors.ServiceUnavailable(c, "Feedback is not configured")
		default:
			logging.FromContext(c.Request.Context(), h.logger).Error("feedback submission failed", zap.Error(err))
			apierrors.BadGateway(c, "Failed to submit feedback")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"issue_url": issueURL})
}
