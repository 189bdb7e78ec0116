package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yukikurage/applicant-tracking-api/internal/intake"
)

// ErrObjectNotFound is returned when a key does not exist in the store.
var ErrObjectNotFound = errors.New("storage: object not found")

// Object is a blob read back from the store. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// BlobStore is an S3-compatible key/value blob store.
type BlobStore interface {
	// Put writes data under key with the given content type.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get opens the object stored under key.
	Get(ctx context.Context, key string) (*Object, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// DocumentKey derives the storage key for a document. It never contains
// client supplied text.
func DocumentKey(orgID, candidateID, documentID, mimeType string) string {
	return fmt.Sprintf("%s/%s/%s.%s", orgID, candidateID, documentID, intake.ExtensionFor(mimeType))
}
