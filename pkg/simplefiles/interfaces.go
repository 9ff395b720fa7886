package simplefiles

import (
	"context"

	"github.com/google/uuid"
)

// ObjectStore defines the interface for object storage backends
type ObjectStore interface {
	// Upload writes data under params.ObjectKey, replacing any existing object.
	Upload(ctx context.Context, data []byte, params UploadParams) error

	// Download reads the whole object into memory. A missing object is
	// reported with an error wrapping ErrObjectNotFound.
	Download(ctx context.Context, bucket, objectKey string) ([]byte, error)
}

// Repository defines the interface for file record persistence
type Repository interface {
	// FindAll returns every record in insertion order.
	FindAll(ctx context.Context) ([]*FileRecord, error)

	// FindByID returns ErrFileNotFound when no record has the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*FileRecord, error)

	// Save persists a new record, assigning an ID when it has none.
	Save(ctx context.Context, record *FileRecord) (*FileRecord, error)
}

// EventSink receives notifications about file lifecycle steps.
// Errors returned by a sink are logged and never fail the operation.
type EventSink interface {
	FileStored(ctx context.Context, bucket, objectKey string, size int64) error
	FileRecorded(ctx context.Context, record *FileRecord) error
	FileDownloaded(ctx context.Context, record *FileRecord, size int) error

	// ObjectOrphaned fires when an object was stored but its record could not be created.
	ObjectOrphaned(ctx context.Context, bucket, objectKey string, cause error) error
}
