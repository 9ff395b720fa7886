package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-files/pkg/simplefiles"
)

func TestEventSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewEventSink(reg)
	ctx := context.Background()
	record := &simplefiles.FileRecord{StoredName: "1-a.txt"}

	require.NoError(t, sink.FileStored(ctx, "bucket", "docs/1-a.txt", 10))
	require.NoError(t, sink.FileStored(ctx, "bucket", "docs/2-b.txt", 5))
	require.NoError(t, sink.FileRecorded(ctx, record))
	require.NoError(t, sink.FileDownloaded(ctx, record, 10))
	require.NoError(t, sink.ObjectOrphaned(ctx, "bucket", "docs/2-b.txt", errors.New("db down")))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.stored))
	assert.Equal(t, 15.0, testutil.ToFloat64(sink.storedBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.recorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.downloaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.orphaned))
}

func TestHTTPMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTP(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/file/download", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/file/download?id=x", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/file/download", "400")))
}
