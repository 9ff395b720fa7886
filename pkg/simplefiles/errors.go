package simplefiles

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrInvalidArgument is the class of errors caused by bad caller input,
	// including lookups of identifiers that do not exist.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFileNotFound indicates no record exists for an identifier
	ErrFileNotFound = fmt.Errorf("%w: file not found", ErrInvalidArgument)

	// ErrObjectNotFound indicates the store has no object under a key
	ErrObjectNotFound = errors.New("object not found")

	// ErrUploadFailed indicates an upload operation failed
	ErrUploadFailed = errors.New("upload failed")

	// ErrDownloadFailed indicates a download operation failed
	ErrDownloadFailed = errors.New("download failed")

	// ErrRecordFailed indicates the record for a stored object could not be saved
	ErrRecordFailed = errors.New("record save failed")
)

// FileError represents an error related to record operations
type FileError struct {
	ID  uuid.UUID
	Op  string
	Err error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file operation %s failed for file %s: %v", e.Op, e.ID, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to storage operations. It matches
// both its Kind (ErrUploadFailed, ErrDownloadFailed) and the underlying cause.
type StorageError struct {
	Bucket string
	Key    string
	Op     string
	Kind   error
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s in bucket %s: %v", e.Op, e.Key, e.Bucket, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
