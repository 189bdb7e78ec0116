package repository

import (
	"context"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"gorm.io/gorm"
)

type GormOrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID loads only what the read-only check needs.
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).
		Select("id", "name", "slug", "read_only").
		Take(&org, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *GormOrganizationRepository) FindMembership(ctx context.Context, organizationID, userID string) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	err := r.db.WithContext(ctx).
		Preload("Organization").
		Take(&member, "organization_id = ? AND user_id = ?", organizationID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMemberships returns the user's memberships, oldest first, so the
// personal organization created at signup comes first.
func (r *GormOrganizationRepository) ListMemberships(ctx context.Context, userID string) ([]models.OrganizationMember, error) {
	memberships := []models.OrganizationMember{}
	err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&memberships).Error
	return memberships, err
}
