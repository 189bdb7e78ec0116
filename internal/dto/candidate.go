package dto

import (
	"time"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
)

// DocumentDTO represents a stored document. The storage key is never exposed.
type DocumentDTO struct {
	ID               string              `json:"id"`
	CandidateID      string              `json:"candidate_id"`
	Type             models.DocumentType `json:"type"`
	OriginalFilename string              `json:"original_filename"`
	MimeType         string              `json:"mime_type"`
	SizeBytes        int64               `json:"size_bytes"`
	CreatedAt        time.Time           `json:"created_at"`
}

// ApplicationDTO represents an application in API responses
type ApplicationDTO struct {
	ID          string                   `json:"id"`
	CandidateID string                   `json:"candidate_id"`
	JobID       string                   `json:"job_id"`
	JobTitle    string                   `json:"job_title,omitempty"`
	Status      models.ApplicationStatus `json:"status"`
	Score       *int                     `json:"score"`
	Notes       *string                  `json:"notes"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// CandidateDetailDTO represents a candidate with applications and documents
type CandidateDetailDTO struct {
	ID           string           `json:"id"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Email        string           `json:"email"`
	Phone        *string          `json:"phone"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Applications []ApplicationDTO `json:"applications"`
	Documents    []DocumentDTO    `json:"documents"`
}

// ToDocumentDTO converts a document model to DTO
func ToDocumentDTO(doc models.Document) DocumentDTO {
	return DocumentDTO{
		ID:               doc.ID,
		CandidateID:      doc.CandidateID,
		Type:             doc.Type,
		OriginalFilename: doc.OriginalFilename,
		MimeType:         doc.MimeType,
		SizeBytes:        doc.SizeBytes,
		CreatedAt:        doc.CreatedAt,
	}
}

// ToApplicationDTO converts an application model to DTO
func ToApplicationDTO(app models.Application) ApplicationDTO {
	dto := ApplicationDTO{
		ID:          app.ID,
		CandidateID: app.CandidateID,
		JobID:       app.JobID,
		Status:      app.Status,
		Score:       app.Score,
		Notes:       app.Notes,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}
	if app.Job != nil {
		dto.JobTitle = app.Job.Title
	}
	return dto
}

// ToCandidateDetailDTO converts a candidate with loaded relations to DTO
func ToCandidateDetailDTO(c models.Candidate) CandidateDetailDTO {
	applications := make([]ApplicationDTO, len(c.Applications))
	for i, app := range c.Applications {
		applications[i] = ToApplicationDTO(app)
	}
	documents := make([]DocumentDTO, len(c.Documents))
	for i, doc := range c.Documents {
		documents[i] = ToDocumentDTO(doc)
	}

	return CandidateDetailDTO{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Applications: applications,
		Documents:    documents,
	}
}
