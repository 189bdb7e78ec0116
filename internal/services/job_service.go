package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/repository"
	"github.com/yukikurage/applicant-tracking-api/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrJobNotFound             = errors.New("job not found")
	ErrInvalidJobStatus        = errors.New("invalid job status")
	ErrInvalidJobType          = errors.New("invalid job type")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidQuestionType     = errors.New("invalid question type")
	ErrQuestionOptionsRequired = errors.New("options are required for select questions")
	ErrLabelRequired           = errors.New("label is required")
	ErrTitleRequired           = errors.New("title is required")
)

// JobService handles job and question business logic
type JobService struct {
	jobRepo repository.JobRepository
}

// NewJobService creates a new JobService
func NewJobService(jobRepo repository.JobRepository) *JobService {
	return &JobService{
		jobRepo: jobRepo,
	}
}

// CreateJobInput represents input for creating a job
type CreateJobInput struct {
	OrganizationID string
	Title          string
	Description    string
	Location       *string
	Type           models.JobType
}

// CreateJob creates a draft job with a public slug derived from its title.
func (s *JobService) CreateJob(ctx context.Context, input CreateJobInput) (*models.Job, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Type == "" {
		input.Type = models.JobTypeFullTime
	}
	if !input.Type.Valid() {
		return nil, ErrInvalidJobType
	}

	id := uuid.NewString()
	job := &models.Job{
		ID:             id,
		OrganizationID: input.OrganizationID,
		Title:          title,
		Slug:           utils.GenerateSlug(title, id),
		Description:    input.Description,
		Location:       input.Location,
		Type:           input.Type,
		Status:         models.JobStatusDraft,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// UpdateJobStatus moves a job to status when the transition is allowed.
// Setting the current status again is a no-op.
func (s *JobService) UpdateJobStatus(ctx context.Context, organizationID, id string, status models.JobStatus) (*models.Job, error) {
	if !status.Valid() {
		return nil, ErrInvalidJobStatus
	}

	job, err := s.findJob(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if job.Status == status {
		return job, nil
	}
	if !job.Status.CanTransitionTo(status) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.jobRepo.UpdateStatus(ctx, organizationID, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	job.Status = status
	return job, nil
}

// AddQuestionInput represents input for adding a question to a job
type AddQuestionInput struct {
	OrganizationID string
	JobID          string
	Type           models.QuestionType
	Label          string
	Description    *string
	Required       bool
	Options        []string
	// DisplayOrder defaults to the position after the last question.
	DisplayOrder *int
}

// AddQuestion appends a question to a job.
func (s *JobService) AddQuestion(ctx context.Context, input AddQuestionInput) (*models.JobQuestion, error) {
	if !input.Type.Valid() {
		return nil, ErrInvalidQuestionType
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, ErrLabelRequired
	}

	var options []string
	for _, opt := range input.Options {
		if opt = strings.TrimSpace(opt); opt != "" {
			options = append(options, opt)
		}
	}
	if input.Type.RequiresOptions() && len(options) == 0 {
		return nil, ErrQuestionOptionsRequired
	}

	if _, err := s.findJob(ctx, input.OrganizationID, input.JobID); err != nil {
		return nil, err
	}

	order := 0
	if input.DisplayOrder != nil {
		order = *input.DisplayOrder
	} else {
		next, err := s.jobRepo.NextDisplayOrder(ctx, input.OrganizationID, input.JobID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute display order: %w", err)
		}
		order = next
	}

	question := &models.JobQuestion{
		OrganizationID: input.OrganizationID,
		JobID:          input.JobID,
		Type:           input.Type,
		Label:          label,
		Description:    input.Description,
		Required:       input.Required,
		DisplayOrder:   order,
	}
	if len(options) > 0 {
		question.Options = datatypes.JSONSlice[string](options)
	}
	if err := s.jobRepo.CreateQuestion(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// GetPublicJob returns an open job and its ordered questions.
func (s *JobService) GetPublicJob(ctx context.Context, slug string) (*models.Job, error) {
	job, err := s.jobRepo.FindOpenBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotAcceptingApplications
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	questions, err := s.jobRepo.ListQuestions(ctx, job.OrganizationID, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	job.Questions = questions
	return job, nil
}

func (s *JobService) findJob(ctx context.Context, organizationID, id string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return job, nil
}
