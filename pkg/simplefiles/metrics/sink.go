// Package metrics exposes Prometheus instrumentation for the files service.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tendant/simple-files/pkg/simplefiles"
)

// EventSink counts file lifecycle events.
type EventSink struct {
	stored       prometheus.Counter
	storedBytes  prometheus.Counter
	recorded     prometheus.Counter
	downloaded   prometheus.Counter
	downloadSize prometheus.Histogram
	orphaned     prometheus.Counter
}

// NewEventSink registers the lifecycle counters with reg.
func NewEventSink(reg prometheus.Registerer) *EventSink {
	factory := promauto.With(reg)
	return &EventSink{
		stored: factory.NewCounter(prometheus.CounterOpts{
			Name: "files_stored_total",
			Help: "Objects written to the object store",
		}),
		storedBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "files_stored_bytes_total",
			Help: "Bytes written to the object store",
		}),
		recorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "files_recorded_total",
			Help: "File records created",
		}),
		downloaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "files_downloaded_total",
			Help: "Files served to clients",
		}),
		downloadSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "files_download_size_bytes",
			Help:    "Size of downloaded files",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		orphaned: factory.NewCounter(prometheus.CounterOpts{
			Name: "files_orphaned_objects_total",
			Help: "Objects stored without a matching record",
		}),
	}
}

var _ simplefiles.EventSink = (*EventSink)(nil)

func (s *EventSink) FileStored(_ context.Context, _, _ string, size int64) error {
	s.stored.Inc()
	s.storedBytes.Add(float64(size))
	return nil
}

func (s *EventSink) FileRecorded(context.Context, *simplefiles.FileRecord) error {
	s.recorded.Inc()
	return nil
}

func (s *EventSink) FileDownloaded(_ context.Context, _ *simplefiles.FileRecord, size int) error {
	s.downloaded.Inc()
	s.downloadSize.Observe(float64(size))
	return nil
}

func (s *EventSink) ObjectOrphaned(context.Context, string, string, error) error {
	s.orphaned.Inc()
	return nil
}
