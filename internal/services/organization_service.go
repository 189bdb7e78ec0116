package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrNotOrganizationMember = errors.New("organization not found")
	ErrOrganizationReadOnly  = errors.New("organization is read-only")
)

// OrganizationService provides tenant lookups and the read-only guard.
type OrganizationService struct {
	orgRepo     repository.OrganizationRepository
	demoOrgSlug string
}

// NewOrganizationService creates a new OrganizationService. Organizations whose
// slug equals demoOrgSlug are treated as read-only.
func NewOrganizationService(orgRepo repository.OrganizationRepository, demoOrgSlug string) *OrganizationService {
	return &OrganizationService{
		orgRepo:     orgRepo,
		demoOrgSlug: demoOrgSlug,
	}
}

// IsReadOnly reports whether writes to the organization must be rejected.
func (s *OrganizationService) IsReadOnly(org *models.Organization) bool {
	if org.ReadOnly {
		return true
	}
	return s.demoOrgSlug != "" && org.Slug == s.demoOrgSlug
}

// EnsureWritable returns ErrOrganizationReadOnly for read-only organizations.
func (s *OrganizationService) EnsureWritable(ctx context.Context, organizationID string) error {
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to load organization: %w", err)
	}
	if s.IsReadOnly(org) {
		return ErrOrganizationReadOnly
	}
	return nil
}

// RequireMembership verifies the user belongs to the organization.
func (s *OrganizationService) RequireMembership(ctx context.Context, organizationID, userID string) (*models.OrganizationMember, error) {
	member, err := s.orgRepo.FindMembership(ctx, organizationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotOrganizationMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return member, nil
}

// ListOrganizationsForUser returns organizations the user belongs to.
func (s *OrganizationService) ListOrganizationsForUser(ctx context.Context, userID string) ([]models.OrganizationMember, error) {
	memberships, err := s.orgRepo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, nil
}
