package repository

import (
	"context"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"gorm.io/gorm"
)

// GormApplicationRepository is a GORM implementation of ApplicationRepository
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// Exists reports whether the candidate already applied to the job
func (r *GormApplicationRepository) Exists(ctx context.Context, organizationID, candidateID, jobID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("organization_id = ? AND candidate_id = ? AND job_id = ?", organizationID, candidateID, jobID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithResponses inserts an application and its responses in one transaction
func (r *GormApplicationRepository) CreateWithResponses(ctx context.Context, application *models.Application, responses []models.QuestionResponse) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Job", "Responses").Create(application).Error; err != nil {
			return err
		}
		if len(responses) == 0 {
			return nil
		}
		for i := range responses {
			responses[i].ApplicationID = application.ID
			responses[i].OrganizationID = application.OrganizationID
		}
		return tx.Create(&responses).Error
	})
}

// FindByID finds an application inside an organization
func (r *GormApplicationRepository) FindByID(ctx context.Context, organizationID, id string) (*models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// Update saves status, score and notes
func (r *GormApplicationRepository) Update(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Model(application).
		Where("organization_id = ?", application.OrganizationID).
		Select("status", "score", "notes", "updated_at").
		Updates(application).Error
}
