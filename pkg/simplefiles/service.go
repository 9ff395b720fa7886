package simplefiles

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the simple-files library
type Service interface {
	// SaveFile uploads the attachment and then records its metadata.
	SaveFile(ctx context.Context, req SaveFileRequest) (*SaveResult, error)

	// DownloadFile looks up a record and reads its bytes from the store.
	DownloadFile(ctx context.Context, id uuid.UUID) (*DownloadFileData, error)

	// GetFile returns a single record.
	GetFile(ctx context.Context, id uuid.UUID) (*FileRecord, error)

	// ListFiles returns every record, unfiltered.
	ListFiles(ctx context.Context) ([]*FileRecord, error)

	// Location reports the bucket and folder new files are written to.
	Location() Location
}
