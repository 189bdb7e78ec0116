package services

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/applicant-tracking-api/internal/intake"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/repository"
	"github.com/yukikurage/applicant-tracking-api/internal/storage"
	"github.com/yukikurage/applicant-tracking-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type failingCreateDocumentRepository struct {
	repository.DocumentRepository
}

func (failingCreateDocumentRepository) Create(ctx context.Context, document *models.Document) error {
	return fmt.Errorf("insert failed")
}

func newDocumentService(db *gorm.DB, docRepo repository.DocumentRepository, store storage.BlobStore) *DocumentService {
	return NewDocumentService(docRepo, repository.NewCandidateRepository(db), storage.NewUploader(store, zap.NewNop()), zap.NewNop())
}

func TestDocumentService_UploadOpenDelete(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	candidate := testutil.CreateCandidate(t, db, org, "ada@example.com")
	store := testutil.NewFlakyStore()
	service := newDocumentService(db, repository.NewDocumentRepository(db), store)
	ctx := context.Background()

	doc, err := service.Upload(ctx, UploadDocumentInput{
		OrganizationID: org.ID,
		CandidateID:    candidate.ID,
		Filename:       "cv.pdf",
		Data:           testutil.SamplePDF(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DocumentResume, doc.Type)
	assert.Equal(t, intake.MimePDF, doc.MimeType)

	found, err := service.Get(ctx, org.ID, doc.ID)
	require.NoError(t, err)

	obj, err := service.Open(ctx, found)
	require.NoError(t, err)
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	obj.Body.Close()
	assert.Equal(t, testutil.SamplePDF(), data)

	store.FailDelete = true
	require.NoError(t, service.Delete(ctx, found))
	_, err = service.Get(ctx, org.ID, doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentService_UploadRejections(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	other := testutil.CreateOrganization(t, db, "other")
	candidate := testutil.CreateCandidate(t, db, org, "ada@example.com")
	store := testutil.NewFlakyStore()
	service := newDocumentService(db, repository.NewDocumentRepository(db), store)
	ctx := context.Background()

	_, err := service.Upload(ctx, UploadDocumentInput{OrganizationID: other.ID, CandidateID: candidate.ID, Data: testutil.SamplePDF()})
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	_, err = service.Upload(ctx, UploadDocumentInput{OrganizationID: org.ID, CandidateID: candidate.ID, Type: "photo", Data: testutil.SamplePDF()})
	assert.ErrorIs(t, err, ErrInvalidDocumentType)

	_, err = service.Upload(ctx, UploadDocumentInput{OrganizationID: org.ID, CandidateID: candidate.ID, Data: []byte("plain text")})
	assert.ErrorIs(t, err, intake.ErrUnsupportedFileType)

	for i := 0; i < 20; i++ {
		_, err := service.Upload(ctx, UploadDocumentInput{OrganizationID: org.ID, CandidateID: candidate.ID, Type: models.DocumentOther, Data: testutil.SamplePDF()})
		require.NoError(t, err)
	}
	_, err = service.Upload(ctx, UploadDocumentInput{OrganizationID: org.ID, CandidateID: candidate.ID, Data: testutil.SamplePDF()})
	assert.ErrorIs(t, err, ErrDocumentLimitExceeded)
	assert.Equal(t, 20, store.Puts)
}

func TestDocumentService_UploadDiscardsBlobWhenInsertFails(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	candidate := testutil.CreateCandidate(t, db, org, "ada@example.com")
	store := testutil.NewFlakyStore()
	service := newDocumentService(db, failingCreateDocumentRepository{repository.NewDocumentRepository(db)}, store)

	_, err := service.Upload(context.Background(), UploadDocumentInput{OrganizationID: org.ID, CandidateID: candidate.ID, Data: testutil.SamplePDF()})

	require.Error(t, err)
	assert.Equal(t, 1, store.Puts)
	assert.Equal(t, 1, store.Deletes)
	assert.Empty(t, store.Keys())
}

func TestDocumentService_OpenMissingBlob(t *testing.T) {
	db := testutil.NewDB(t)
	service := newDocumentService(db, repository.NewDocumentRepository(db), storage.NewMemoryStore())

	_, err := service.Open(context.Background(), &models.Document{StorageKey: "org/cand/doc.pdf"})
	assert.ErrorIs(t, err, ErrDocumentBlobMissing)
}
