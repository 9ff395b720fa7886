package simplefiles

import (
	"context"
	"log/slog"
)

// LogEventSink writes every lifecycle event to a structured logger.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink backed by logger
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (l *LogEventSink) FileStored(ctx context.Context, bucket, objectKey string, size int64) error {
	l.logger.InfoContext(ctx, "File stored", "bucket", bucket, "key", objectKey, "size", size)
	return nil
}

func (l *LogEventSink) FileRecorded(ctx context.Context, record *FileRecord) error {
	l.logger.InfoContext(ctx, "File recorded", "id", record.ID, "stored_name", record.StoredName)
	return nil
}

func (l *LogEventSink) FileDownloaded(ctx context.Context, record *FileRecord, size int) error {
	l.logger.InfoContext(ctx, "File downloaded", "id", record.ID, "size", size)
	return nil
}

func (l *LogEventSink) ObjectOrphaned(ctx context.Context, bucket, objectKey string, cause error) error {
	l.logger.WarnContext(ctx, "Orphaned object", "bucket", bucket, "key", objectKey, "error", cause)
	return nil
}
