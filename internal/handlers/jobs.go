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

// JobHandler handles job and question HTTP requests
type JobHandler struct {
	jobService *services.JobService
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// CreateJobRequest represents the request to create a job
type CreateJobRequest struct {
	Title       string         `json:"title" binding:"required,max=255"`
	Description string         `json:"description" binding:"max=20000"`
	Location    *string        `json:"location" binding:"omitempty,max=255"`
	Type        models.JobType `json:"type"`
}

// UpdateJobRequest represents the request to change a job's status
type UpdateJobRequest struct {
	Status models.JobStatus `json:"status" binding:"required"`
}

// AddQuestionRequest represents the request to add a question to a job
type AddQuestionRequest struct {
	Type         models.QuestionType `json:"type" binding:"required"`
	Label        string              `json:"label" binding:"required,max=500"`
	Description  *string             `json:"description" binding:"omitempty,max=2000"`
	Required     bool                `json:"required"`
	Options      []string            `json:"options" binding:"omitempty,max=50,dive,max=255"`
	DisplayOrder *int                `json:"display_order" binding:"omitempty,min=0"`
}

// CreateJob handles POST /api/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		apierrors.Forbidden(c, "No active organization")
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), services.CreateJobInput{
		OrganizationID: orgID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Type:           req.Type,
	})
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJobDTO(*job))
}

// UpdateJob handles PATCH /api/jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		apierrors.Forbidden(c, "No active organization")
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	job, err := h.jobService.UpdateJobStatus(c.Request.Context(), orgID, c.Param("id"), req.Status)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobDTO(*job))
}

// AddQuestion handles POST /api/jobs/:id/questions
func (h *JobHandler) AddQuestion(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		apierrors.Forbidden(c, "No active organization")
		return
	}

	var req AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	question, err := h.jobService.AddQuestion(c.Request.Context(), services.AddQuestionInput{
		OrganizationID: orgID,
		JobID:          c.Param("id"),
		Type:           req.Type,
		Label:          req.Label,
		Description:    req.Description,
		Required:       req.Required,
		Options:        req.Options,
		DisplayOrder:   req.DisplayOrder,
	})
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToQuestionDTO(*question))
}

func respondJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		apierrors.NotFound(c, "Job not found")
	case errors.Is(err, services.ErrInvalidStatusTransition):
		apierrors.UnprocessableEntity(c, "Invalid status transition")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrLabelRequired),
		errors.Is(err, services.ErrInvalidJobType),
		errors.Is(err, services.ErrInvalidJobStatus),
		errors.Is(err, services.ErrInvalidQuestionType),
		errors.Is(err, services.ErrQuestionOptionsRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Failed to process job request")
	}
}
