package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/repository"
	"gorm.io/gorm"
)

const maxNotesLength = 5000

var (
	ErrApplicationNotFound      = errors.New("application not found")
	ErrInvalidApplicationStatus = errors.New("invalid application status")
	ErrInvalidScore             = errors.New("score must be between 0 and 100")
	ErrNotesTooLong             = errors.New("notes must be at most 5000 characters")
)

// ApplicationService handles recruiter updates to applications
type ApplicationService struct {
	appRepo repository.ApplicationRepository
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(appRepo repository.ApplicationRepository) *ApplicationService {
	return &ApplicationService{
		appRepo: appRepo,
	}
}

// UpdateApplicationInput represents a partial application update
type UpdateApplicationInput struct {
	Status *models.ApplicationStatus
	Score  *int
	Notes  *string
}

// UpdateApplication applies a status transition, score or notes change.
func (s *ApplicationService) UpdateApplication(ctx context.Context, organizationID, id string, input UpdateApplicationInput) (*models.Application, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidApplicationStatus
	}
	if input.Score != nil && (*input.Score < 0 || *input.Score > 100) {
		return nil, ErrInvalidScore
	}
	if input.Notes != nil && utf8.RuneCountInString(*input.Notes) > maxNotesLength {
		return nil, ErrNotesTooLong
	}

	application, err := s.appRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}

	if input.Status != nil && *input.Status != application.Status {
		if !application.Status.CanTransitionTo(*input.Status) {
			return nil, ErrInvalidStatusTransition
		}
		application.Status = *input.Status
	}
	if input.Score != nil {
		application.Score = input.Score
	}
	if input.Notes != nil {
		application.Notes = input.Notes
	}

	if err := s.appRepo.Update(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return application, nil
}
