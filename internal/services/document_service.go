package services

import (
	"context"
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
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound      = errors.New("document not found")
	ErrInvalidDocumentType   = errors.New("invalid document type")
	ErrDocumentLimitExceeded = errors.New("document limit reached for this candidate")
	ErrDocumentBlobMissing   = errors.New("document file is missing from storage")
)

// DocumentService manages candidate documents for authenticated users.
type DocumentService struct {
	docRepo       repository.DocumentRepository
	candidateRepo repository.CandidateRepository
	uploader      *storage.Uploader
	validator     intake.FileValidator
	logger        *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(docRepo repository.DocumentRepository, candidateRepo repository.CandidateRepository, uploader *storage.Uploader, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		docRepo:       docRepo,
		candidateRepo: candidateRepo,
		uploader:      uploader,
		validator:     intake.FileValidator{MaxSize: constants.MaxFileSize},
		logger:        logger,
	}
}

// UploadDocumentInput is a file attached to a candidate by a recruiter.
type UploadDocumentInput struct {
	OrganizationID string
	CandidateID    string
	Type           models.DocumentType
	Filename       string
	Data           []byte
}

// Upload validates and stores a document. The blob is written first and
// discarded again if the row cannot be inserted.
func (s *DocumentService) Upload(ctx context.Context, input UploadDocumentInput) (*models.Document, error) {
	if _, err := s.candidateRepo.FindByID(ctx, input.OrganizationID, input.CandidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}

	if input.Type == "" {
		input.Type = models.DocumentResume
	}
	if !input.Type.Valid() {
		return nil, ErrInvalidDocumentType
	}

	mimeType, err := s.validator.Validate(input.Data)
	if err != nil {
		return nil, err
	}

	count, err := s.docRepo.CountByCandidate(ctx, input.OrganizationID, input.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	if count >= constants.MaxDocumentsPerCandidate {
		return nil, ErrDocumentLimitExceeded
	}

	stored, err := s.uploader.Store(ctx, input.OrganizationID, input.CandidateID, input.Data, mimeType)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:               stored.DocumentID,
		OrganizationID:   input.OrganizationID,
		CandidateID:      input.CandidateID,
		Type:             input.Type,
		StorageKey:       stored.Key,
		OriginalFilename: utils.SanitizeFilename(input.Filename),
		MimeType:         mimeType,
		SizeBytes:        int64(len(input.Data)),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.uploader.Discard(ctx, stored.Key)
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

// Get finds a document inside an organization.
func (s *DocumentService) Get(ctx context.Context, organizationID, id string) (*models.Document, error) {
	doc, err := s.docRepo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return doc, nil
}

// Open streams the blob behind a document. The caller closes the body.
func (s *DocumentService) Open(ctx context.Context, doc *models.Document) (*storage.Object, error) {
	obj, err := s.uploader.Open(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrDocumentBlobMissing
		}
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return obj, nil
}

// Delete removes the blob and then the row. A failed blob delete is logged
// and does not stop the row from being removed.
func (s *DocumentService) Delete(ctx context.Context, doc *models.Document) error {
	s.uploader.Discard(ctx, doc.StorageKey)

	if err := s.docRepo.Delete(ctx, doc.OrganizationID, doc.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	logging.FromContext(ctx, s.logger).Info("document deleted",
		zap.String("document_id", doc.ID),
		zap.String("organization_id", doc.OrganizationID),
	)
	return nil
}
