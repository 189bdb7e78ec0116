package repository

import (
	"context"
	"time"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"gorm.io/gorm"
)

// GormCandidateRepository is a GORM implementation of CandidateRepository
type GormCandidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new CandidateRepository
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &GormCandidateRepository{db: db}
}

// Create inserts a candidate
func (r *GormCandidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

// FindByEmail finds a candidate by lowercased email inside an organization
func (r *GormCandidateRepository) FindByEmail(ctx context.Context, organizationID, email string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND email = ?", organizationID, email).
		First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

// FindByID finds a candidate inside an organization
func (r *GormCandidateRepository) FindByID(ctx context.Context, organizationID, id string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

// FindWithDetails loads a candidate with applications and documents, newest first
func (r *GormCandidateRepository) FindWithDetails(ctx context.Context, organizationID, id string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).
		Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Where("organization_id = ?", organizationID).Order("created_at DESC")
		}).
		Preload("Applications.Job").
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Where("organization_id = ?", organizationID).Order("created_at DESC")
		}).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

// FillGaps writes fill values only into empty fields and refreshes updated_at.
// The emptiness test runs in SQL so a concurrent writer is never overwritten.
func (r *GormCandidateRepository) FillGaps(ctx context.Context, candidate *models.Candidate, fill CandidateFill) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if fill.FirstName != "" {
		updates["first_name"] = gorm.Expr("CASE WHEN first_name = '' THEN ? ELSE first_name END", fill.FirstName)
	}
	if fill.LastName != "" {
		updates["last_name"] = gorm.Expr("CASE WHEN last_name = '' THEN ? ELSE last_name END", fill.LastName)
	}
	if fill.Phone != nil && *fill.Phone != "" {
		updates["phone"] = gorm.Expr("CASE WHEN phone IS NULL OR phone = '' THEN ? ELSE phone END", *fill.Phone)
	}

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Candidate{}).
		Where("id = ? AND organization_id = ?", candidate.ID, candidate.OrganizationID).
		Updates(updates).Error; err != nil {
		return err
	}
	return db.Where("id = ?", candidate.ID).First(candidate).Error
}
