package simplefiles

import (
	"time"

	"github.com/google/uuid"
)

// FileRecord is the persisted metadata row describing one uploaded file.
type FileRecord struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Folder      string    `json:"folder"`
	StoredName  string    `json:"stored_name"`
	CreatedDate time.Time `json:"created_date"`
}

// ObjectKey returns the key the record's bytes were written under.
func (r *FileRecord) ObjectKey() string {
	return ObjectKey(r.Folder, r.StoredName)
}

// Location names the bucket and folder every object is written to.
type Location struct {
	Bucket string
	Folder string
}

// UploadedFile is an attachment received from a client, fully read into memory.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SaveFileRequest contains parameters for saving a new file
type SaveFileRequest struct {
	Title       string
	Description string
	File        UploadedFile
}

// SaveStage reports how far a save got before returning.
type SaveStage string

const (
	// SaveStageFailed means nothing was persisted.
	SaveStageFailed SaveStage = "failed"
	// SaveStageStored means the object was written but no record points at it.
	SaveStageStored SaveStage = "stored"
	// SaveStageRecorded means both the object and its record exist.
	SaveStageRecorded SaveStage = "recorded"
)

// SaveResult describes the outcome of a save. It is returned even when the
// save fails so the caller can tell an orphaned object from a clean failure.
type SaveResult struct {
	Stage      SaveStage
	Bucket     string
	ObjectKey  string
	StoredName string
	Record     *FileRecord
}

// DownloadFileData bundles a record's bytes with the name they were stored under.
type DownloadFileData struct {
	Record     *FileRecord
	StoredName string
	Data       []byte
}

// Filename is the client-facing name: the stored name without its timestamp prefix.
func (d *DownloadFileData) Filename() string {
	return DisplayName(d.StoredName)
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	Bucket      string
	ObjectKey   string
	ContentType string
	Size        int64
}
