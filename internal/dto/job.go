package dto

import (
	"time"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
)

// JobDTO represents a job in authenticated API responses
type JobDTO struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Location    *string          `json:"location"`
	Type        models.JobType   `json:"type"`
	Status      models.JobStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// QuestionDTO represents a job question in authenticated API responses
type QuestionDTO struct {
	ID           string              `json:"id"`
	JobID        string              `json:"job_id"`
	Type         models.QuestionType `json:"type"`
	Label        string              `json:"label"`
	Description  *string             `json:"description"`
	Required     bool                `json:"required"`
	Options      []string            `json:"options"`
	DisplayOrder int                 `json:"display_order"`
}

// PublicQuestionDTO is a question as shown on the public application form
type PublicQuestionDTO struct {
	ID          string              `json:"id"`
	Type        models.QuestionType `json:"type"`
	Label       string              `json:"label"`
	Description *string             `json:"description"`
	Required    bool                `json:"required"`
	Options     []string            `json:"options"`
}

// PublicJobDTO is an open job as shown to applicants
type PublicJobDTO struct {
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Location    *string             `json:"location"`
	Type        models.JobType      `json:"type"`
	Questions   []PublicQuestionDTO `json:"questions"`
}

// ToJobDTO converts a job model to DTO
func ToJobDTO(job models.Job) JobDTO {
	return JobDTO{
		ID:          job.ID,
		Title:       job.Title,
		Slug:        job.Slug,
		Description: job.Description,
		Location:    job.Location,
		Type:        job.Type,
		Status:      job.Status,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

// ToQuestionDTO converts a question model to DTO
func ToQuestionDTO(q models.JobQuestion) QuestionDTO {
	return QuestionDTO{
		ID:           q.ID,
		JobID:        q.JobID,
		Type:         q.Type,
		Label:        q.Label,
		Description:  q.Description,
		Required:     q.Required,
		Options:      optionsOrEmpty(q.Options),
		DisplayOrder: q.DisplayOrder,
	}
}

// ToPublicJobDTO converts an open job with its questions to the public DTO
func ToPublicJobDTO(job models.Job) PublicJobDTO {
	questions := make([]PublicQuestionDTO, len(job.Questions))
	for i, q := range job.Questions {
		questions[i] = PublicQuestionDTO{
			ID:          q.ID,
			Type:        q.Type,
			Label:       q.Label,
			Description: q.Description,
			Required:    q.Required,
			Options:     optionsOrEmpty(q.Options),
		}
	}

	return PublicJobDTO{
		Title:       job.Title,
		Slug:        job.Slug,
		Description: job.Description,
		Location:    job.Location,
		Type:        job.Type,
		Questions:   questions,
	}
}

func optionsOrEmpty(options []string) []string {
	if options == nil {
		return []string{}
	}
	return options
}
