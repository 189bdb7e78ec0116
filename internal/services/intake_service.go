package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	"github.com/yukikurage/applicant-tracking-api/internal/intake"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/repository"
	"github.com/yukikurage/applicant-tracking-api/internal/storage"
	"github.com/yukikurage/applicant-tracking-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrJobNotAcceptingApplications = errors.New("job not found or not accepting applications")
	ErrDuplicateApplication        = errors.New("candidate already applied to this job")
)

// FileRejectedError reports an upload that failed size or type validation.
type FileRejectedError struct {
	Label string
	Err   error
}

func (e *FileRejectedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Label, e.Err)
}

func (e *FileRejectedError) Unwrap() error {
	return e.Err
}

// SubmitResult describes what an accepted application produced.
type SubmitResult struct {
	ApplicationID string
	CandidateID   string
	DocumentIDs   []string
	// FailedQuestionIDs lists file questions whose upload did not persist.
	FailedQuestionIDs []string
}

// IntakeService turns public submissions into candidates, applications,
// responses and documents.
type IntakeService struct {
	jobRepo    repository.JobRepository
	appRepo    repository.ApplicationRepository
	docRepo    repository.DocumentRepository
	candidates *CandidateService
	orgs       *OrganizationService
	uploader   *storage.Uploader
	validator  intake.FileValidator
	logger     *zap.Logger
}

// IntakeDeps groups the collaborators of IntakeService.
type IntakeDeps struct {
	JobRepo       repository.JobRepository
	AppRepo       repository.ApplicationRepository
	DocRepo       repository.DocumentRepository
	Candidates    *CandidateService
	Organizations *OrganizationService
	Uploader      *storage.Uploader
	Logger        *zap.Logger
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(deps IntakeDeps) *IntakeService {
	return &IntakeService{
		jobRepo:    deps.JobRepo,
		appRepo:    deps.AppRepo,
		docRepo:    deps.DocRepo,
		candidates: deps.Candidates,
		orgs:       deps.Organizations,
		uploader:   deps.Uploader,
		validator:  intake.FileValidator{MaxSize: constants.MaxFileSize},
		logger:     deps.Logger,
	}
}

// ResolveJob finds the open job behind a public slug. Absent, draft and
// closed jobs are indistinguishable to the caller.
func (s *IntakeService) ResolveJob(ctx context.Context, slug string) (*models.Job, error) {
	job, err := s.jobRepo.FindOpenBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotAcceptingApplications
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	if err := s.orgs.EnsureWritable(ctx, job.OrganizationID); err != nil {
		if errors.Is(err, ErrOrganizationNotFound) {
			return nil, ErrJobNotAcceptingApplications
		}
		return nil, err
	}
	return job, nil
}

type acceptedFile struct {
	answer   intake.FileAnswer
	mimeType string
}

// Submit persists a validated submission against job. Nothing is written
// until every question and file has passed validation. File uploads run last
// and a failed upload never rolls back the application.
func (s *IntakeService) Submit(ctx context.Context, job *models.Job, sub *intake.Submission) (*SubmitResult, error) {
	log := logging.FromContext(ctx, s.logger).With(zap.String("job_id", job.ID))

	questions, err := s.jobRepo.ListQuestions(ctx, job.OrganizationID, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	answers, err := intake.ValidateAnswers(questions, sub.Responses, sub.Files)
	if err != nil {
		return nil, err
	}

	files := make([]acceptedFile, 0, len(answers.Files))
	for _, fa := range answers.Files {
		mimeType, err := s.validator.Validate(fa.File.Data)
		if err != nil {
			return nil, &FileRejectedError{Label: fa.Question.Label, Err: err}
		}
		files = append(files, acceptedFile{answer: fa, mimeType: mimeType})
	}

	candidate, err := s.candidates.Resolve(ctx, job.OrganizationID, ResolveCandidateInput{
		FirstName: sub.FirstName,
		LastName:  sub.LastName,
		Email:     sub.Email,
		Phone:     sub.Phone,
	})
	if err != nil {
		return nil, err
	}

	exists, err := s.appRepo.Exists(ctx, job.OrganizationID, candidate.ID, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if exists {
		return nil, ErrDuplicateApplication
	}

	// The ceiling is checked before the application is created, so a 409
	// here leaves no application behind.
	if len(files) > 0 {
		count, err := s.docRepo.CountByCandidate(ctx, job.OrganizationID, candidate.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count documents: %w", err)
		}
		if count+int64(len(files)) > constants.MaxDocumentsPerCandidate {
			return nil, ErrDocumentLimitExceeded
		}
	}

	// Validation is over. A client hanging up from here on must not leave
	// an application without its documents or a blob without its record.
	ctx = context.WithoutCancel(ctx)

	responses := make([]models.QuestionResponse, 0, len(answers.Responses))
	for _, r := range answers.Responses {
		value, err := json.Marshal(r.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode response: %w", err)
		}
		responses = append(responses, models.QuestionResponse{
			QuestionID: r.QuestionID,
			Value:      datatypes.JSON(value),
		})
	}

	application := &models.Application{
		OrganizationID: job.OrganizationID,
		CandidateID:    candidate.ID,
		JobID:          job.ID,
		Status:         models.ApplicationNew,
	}
	if err := s.appRepo.CreateWithResponses(ctx, application, responses); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	result := &SubmitResult{
		ApplicationID: application.ID,
		CandidateID:   candidate.ID,
	}
	log = log.With(zap.String("application_id", application.ID))

	for _, f := range files {
		docID, err := s.storeFile(ctx, application, f)
		if err != nil {
			log.Error("failed to store application document",
				zap.String("question_id", f.answer.Question.ID),
				zap.Error(err),
			)
			result.FailedQuestionIDs = append(result.FailedQuestionIDs, f.answer.Question.ID)
			continue
		}
		result.DocumentIDs = append(result.DocumentIDs, docID)
	}

	log.Info("application submitted",
		zap.String("candidate_id", candidate.ID),
		zap.Int("documents", len(result.DocumentIDs)),
		zap.Int("failed_documents", len(result.FailedQuestionIDs)),
	)
	return result, nil
}

func (s *IntakeService) storeFile(ctx context.Context, application *models.Application, f acceptedFile) (string, error) {
	stored, err := s.uploader.Store(ctx, application.OrganizationID, application.CandidateID, f.answer.File.Data, f.mimeType)
	if err != nil {
		return "", err
	}

	value, err := json.Marshal(stored.DocumentID)
	if err != nil {
		s.uploader.Discard(ctx, stored.Key)
		return "", err
	}

	doc := &models.Document{
		ID:               stored.DocumentID,
		OrganizationID:   application.OrganizationID,
		CandidateID:      application.CandidateID,
		Type:             models.DocumentTypeForLabel(f.answer.Question.Label),
		StorageKey:       stored.Key,
		OriginalFilename: utils.SanitizeFilename(f.answer.File.Filename),
		MimeType:         f.mimeType,
		SizeBytes:        int64(len(f.answer.File.Data)),
	}
	response := &models.QuestionResponse{
		OrganizationID: application.OrganizationID,
		ApplicationID:  application.ID,
		QuestionID:     f.answer.Question.ID,
		Value:          datatypes.JSON(value),
	}
	if err := s.docRepo.CreateWithResponse(ctx, doc, response); err != nil {
		s.uploader.Discard(ctx, stored.Key)
		return "", fmt.Errorf("failed to record document: %w", err)
	}
	return doc.ID, nil
}
