package simplefiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	store      ObjectStore
	location   Location
	eventSinks []EventSink
	clock      func() time.Time
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithObjectStore sets the object store for the service
func WithObjectStore(store ObjectStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithLocation sets the bucket and folder files are written to
func WithLocation(location Location) Option {
	return func(s *service) {
		s.location = location
	}
}

// WithEventSink adds an event sink; sinks are notified in registration order
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		if sink != nil {
			s.eventSinks = append(s.eventSinks, sink)
		}
	}
}

// WithClock overrides the time source used for stored names and dates
func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		s.clock = clock
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		clock:  time.Now,
		logger: slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, errors.New("repository is required")
	}
	if s.store == nil {
		return nil, errors.New("object store is required")
	}
	if s.location.Bucket == "" {
		return nil, errors.New("bucket is required")
	}
	if s.location.Folder == "" {
		return nil, errors.New("folder is required")
	}

	return s, nil
}

func (s *service) Location() Location {
	return s.location
}

func (s *service) SaveFile(ctx context.Context, req SaveFileRequest) (*SaveResult, error) {
	result := &SaveResult{
		Stage:  SaveStageFailed,
		Bucket: s.location.Bucket,
	}

	if req.File.Filename == "" {
		return result, fmt.Errorf("%w: upload has no filename", ErrInvalidArgument)
	}

	now := s.clock()
	result.StoredName = StoredName(now, req.File.Filename)
	result.ObjectKey = ObjectKey(s.location.Folder, result.StoredName)

	params := UploadParams{
		Bucket:      s.location.Bucket,
		ObjectKey:   result.ObjectKey,
		ContentType: req.File.ContentType,
		Size:        int64(len(req.File.Data)),
	}
	if err := s.store.Upload(ctx, req.File.Data, params); err != nil {
		return result, &StorageError{
			Bucket: params.Bucket,
			Key:    params.ObjectKey,
			Op:     "upload",
			Kind:   ErrUploadFailed,
			Err:    err,
		}
	}
	result.Stage = SaveStageStored
	s.notify(ctx, "file_stored", func(sink EventSink) error {
		return sink.FileStored(ctx, params.Bucket, params.ObjectKey, params.Size)
	})

	record, err := s.repository.Save(ctx, &FileRecord{
		Title:       req.Title,
		Description: req.Description,
		Folder:      s.location.Folder,
		StoredName:  result.StoredName,
		CreatedDate: truncateToDate(now),
	})
	if err != nil {
		s.logger.Error("Object stored without a record",
			"bucket", params.Bucket, "key", params.ObjectKey, "error", err)
		s.notify(ctx, "object_orphaned", func(sink EventSink) error {
			return sink.ObjectOrphaned(ctx, params.Bucket, params.ObjectKey, err)
		})
		return result, fmt.Errorf("%w: %s: %w", ErrRecordFailed, params.ObjectKey, err)
	}

	result.Stage = SaveStageRecorded
	result.Record = record
	s.notify(ctx, "file_recorded", func(sink EventSink) error {
		return sink.FileRecorded(ctx, record)
	})

	return result, nil
}

func (s *service) GetFile(ctx context.Context, id uuid.UUID) (*FileRecord, error) {
	record, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, &FileError{ID: id, Op: "get", Err: err}
	}
	return record, nil
}

func (s *service) DownloadFile(ctx context.Context, id uuid.UUID) (*DownloadFileData, error) {
	record, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, &FileError{ID: id, Op: "download", Err: err}
	}

	key := record.ObjectKey()
	data, err := s.store.Download(ctx, s.location.Bucket, key)
	if err != nil {
		return nil, &StorageError{
			Bucket: s.location.Bucket,
			Key:    key,
			Op:     "download",
			Kind:   ErrDownloadFailed,
			Err:    err,
		}
	}

	s.notify(ctx, "file_downloaded", func(sink EventSink) error {
		return sink.FileDownloaded(ctx, record, len(data))
	})

	return &DownloadFileData{
		Record:     record,
		StoredName: record.StoredName,
		Data:       data,
	}, nil
}

func (s *service) ListFiles(ctx context.Context) ([]*FileRecord, error) {
	records, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return records, nil
}

func (s *service) notify(ctx context.Context, event string, fire func(EventSink) error) {
	for _, sink := range s.eventSinks {
		if err := fire(sink); err != nil {
			s.logger.WarnContext(ctx, "Event sink failed", "event", event, "error", err)
		}
	}
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
