package repository

import (
	"context"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"gorm.io/gorm"
)

// GormDocumentRepository is a GORM implementation of DocumentRepository
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &GormDocumentRepository{db: db}
}

// CountByCandidate counts documents stored for a candidate
func (r *GormDocumentRepository) CountByCandidate(ctx context.Context, organizationID, candidateID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("organization_id = ? AND candidate_id = ?", organizationID, candidateID).
		Count(&count).Error
	return count, err
}

// Create inserts a document
func (r *GormDocumentRepository) Create(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

// CreateWithResponse inserts a document and the response that references it in one transaction
func (r *GormDocumentRepository) CreateWithResponse(ctx context.Context, document *models.Document, response *models.QuestionResponse) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(document).Error; err != nil {
			return err
		}
		return tx.Create(response).Error
	})
}

// FindByID finds a document inside an organization
func (r *GormDocumentRepository) FindByID(ctx context.Context, organizationID, id string) (*models.Document, error) {
	var document models.Document
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&document).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

// Delete removes a document inside an organization
func (r *GormDocumentRepository) Delete(ctx context.Context, organizationID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		Delete(&models.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
