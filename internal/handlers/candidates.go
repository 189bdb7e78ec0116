package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/applicant-tracking-api/internal/dto"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
	"github.com/yukikurage/applicant-tracking-api/internal/middleware"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/services"
)

// CandidateHandler serves candidate and application endpoints
type CandidateHandler struct {
	candidateService   *services.CandidateService
	applicationService *services.ApplicationService
}

// NewCandidateHandler creates a new CandidateHandler
func NewCandidateHandler(candidateService *services.CandidateService, applicationService *services.ApplicationService) *CandidateHandler {
	return &CandidateHandler{
		candidateService:   candidateService,
		applicationService: applicationService,
	}
}

// UpdateApplicationRequest represents a partial application update
type UpdateApplicationRequest struct {
	Status *models.ApplicationStatus `json:"status"`
	Score  *int                      `json:"score"`
	Notes  *string                   `json:"notes"`
}

// GetCandidate handles GET /api/candidates/:id
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		apierrors.Forbidden(c, "No active organization")
		return
	}

	candidate, err := h.candidateService.GetDetail(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrCandidateNotFound) {
			apierrors.NotFound(c, "Candidate not found")
			return
		}
		apierrors.InternalError(c, "Failed to load candidate")
		return
	}

	c.JSON(http.StatusOK, dto.ToCandidateDetailDTO(*candidate))
}

// UpdateApplication handles PATCH /api/applications/:id
func (h *CandidateHandler) UpdateApplication(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		apierrors.Forbidden(c, "No active organization")
		return
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	app, err := h.applicationService.UpdateApplication(c.Request.Context(), orgID, c.Param("id"), services.UpdateApplicationInput{
		Status: req.Status,
		Score:  req.Score,
		Notes:  req.Notes,
	})
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationDTO(*app))
}

func respondApplicationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrApplicationNotFound):
		apierrors.NotFound(c, "Application not found")
	case errors.Is(err, services.ErrInvalidStatusTransition):
		apierrors.UnprocessableEntity(c, "Invalid status transition")
	case errors.Is(err, services.ErrInvalidApplicationStatus),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrNotesTooLong):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Failed to update application")
	}
}
