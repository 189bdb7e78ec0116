package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/repository"
	"gorm.io/gorm"
)

var ErrCandidateNotFound = errors.New("candidate not found")

// CandidateService resolves applicants to per-organization candidate records.
type CandidateService struct {
	candidateRepo repository.CandidateRepository
}

// NewCandidateService creates a new CandidateService
func NewCandidateService(candidateRepo repository.CandidateRepository) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
	}
}

// ResolveCandidateInput is the applicant data submitted with an application.
type ResolveCandidateInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

// Resolve returns the candidate for (organization, email), creating it when
// absent. An existing record only gains values for fields that are empty.
func (s *CandidateService) Resolve(ctx context.Context, organizationID string, input ResolveCandidateInput) (*models.Candidate, error) {
	candidate := &models.Candidate{
		OrganizationID: organizationID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:          input.Phone,
	}

	err := s.candidateRepo.Create(ctx, candidate)
	if err == nil {
		return candidate, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}

	existing, err := s.candidateRepo.FindByEmail(ctx, organizationID, candidate.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing candidate: %w", err)
	}

	fill := repository.CandidateFill{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	}
	if err := s.candidateRepo.FillGaps(ctx, existing, fill); err != nil {
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}
	return existing, nil
}

// GetDetail loads a candidate with applications and documents.
func (s *CandidateService) GetDetail(ctx context.Context, organizationID, id string) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.FindWithDetails(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return candidate, nil
}
