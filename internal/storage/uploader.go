package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"go.uber.org/zap"
)

const discardTimeout = 10 * time.Second

// StoredObject identifies an uploaded document blob.
type StoredObject struct {
	DocumentID string
	Key        string
}

// Uploader writes document blobs under server generated keys.
type Uploader struct {
	store  BlobStore
	logger *zap.Logger
}

func NewUploader(store BlobStore, logger *zap.Logger) *Uploader {
	return &Uploader{store: store, logger: logger}
}

// Store uploads data under a fresh document id. The caller owns the database
// insert and must call Discard if it fails.
func (u *Uploader) Store(ctx context.Context, orgID, candidateID string, data []byte, mimeType string) (StoredObject, error) {
	obj := StoredObject{DocumentID: uuid.NewString()}
	obj.Key = DocumentKey(orgID, candidateID, obj.DocumentID, mimeType)

	if err := u.store.Put(ctx, obj.Key, data, mimeType); err != nil {
		return StoredObject{}, fmt.Errorf("failed to upload document: %w", err)
	}
	return obj, nil
}

// Open streams a stored blob.
func (u *Uploader) Open(ctx context.Context, key string) (*Object, error) {
	return u.store.Get(ctx, key)
}

// Discard deletes a blob and logs the outcome. Failures are swallowed so they
// never mask the error that triggered the cleanup. The delete ignores
// cancellation of ctx.
func (u *Uploader) Discard(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()

	log := logging.FromContext(ctx, u.logger)
	if err := u.store.Delete(ctx, key); err != nil {
		log.Error("failed to delete document blob", zap.String("storage_key", key), zap.Error(err))
		return
	}
	log.Info("deleted document blob", zap.String("storage_key", key))
}
