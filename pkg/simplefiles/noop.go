package simplefiles

import "context"

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) FileStored(ctx context.Context, bucket, objectKey string, size int64) error {
	return nil
}

func (n *NoopEventSink) FileRecorded(ctx context.Context, record *FileRecord) error {
	return nil
}

func (n *NoopEventSink) FileDownloaded(ctx context.Context, record *FileRecord, size int) error {
	return nil
}

func (n *NoopEventSink) ObjectOrphaned(ctx context.Context, bucket, objectKey string, cause error) error {
	return nil
}
