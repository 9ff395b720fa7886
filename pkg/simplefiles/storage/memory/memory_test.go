package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-files/pkg/simplefiles"
	memorystorage "github.com/tendant/simple-files/pkg/simplefiles/storage/memory"
)

func TestMemoryBackend(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()
	params := simplefiles.UploadParams{
		Bucket:      "files",
		ObjectKey:   "uploads/1700000000000-report.pdf",
		ContentType: "application/pdf",
		Size:        11,
	}
	testData := []byte("hello world")

	t.Run("Upload", func(t *testing.T) {
		err := backend.Upload(ctx, testData, params)
		require.NoError(t, err)
		assert.Equal(t, 1, backend.Len())

		contentType, ok := backend.ContentType(params.Bucket, params.ObjectKey)
		assert.True(t, ok)
		assert.Equal(t, "application/pdf", contentType)
	})

	t.Run("Download", func(t *testing.T) {
		data, err := backend.Download(ctx, params.Bucket, params.ObjectKey)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})

	t.Run("UploadCopiesInput", func(t *testing.T) {
		buf := []byte("original")
		p := params
		p.ObjectKey = "uploads/copy"
		require.NoError(t, backend.Upload(ctx, buf, p))
		buf[0] = 'X'

		data, err := backend.Download(ctx, p.Bucket, p.ObjectKey)
		require.NoError(t, err)
		assert.Equal(t, "original", string(data))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, []byte("replaced"), params))

		data, err := backend.Download(ctx, params.Bucket, params.ObjectKey)
		require.NoError(t, err)
		assert.Equal(t, "replaced", string(data))
	})

	t.Run("BucketsAreSeparate", func(t *testing.T) {
		_, err := backend.Download(ctx, "other-bucket", params.ObjectKey)
		assert.ErrorIs(t, err, simplefiles.ErrObjectNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Delete(params.Bucket, params.ObjectKey))

		_, err := backend.Download(ctx, params.Bucket, params.ObjectKey)
		assert.ErrorIs(t, err, simplefiles.ErrObjectNotFound)

		err = backend.Delete(params.Bucket, params.ObjectKey)
		assert.ErrorIs(t, err, simplefiles.ErrObjectNotFound)
	})
}

func TestMemoryBackendConcurrency(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()

	const numGoroutines = 10
	const numOperations = 50

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				key := fmt.Sprintf("concurrent/%d/%d", goroutineID, j)
				payload := []byte(fmt.Sprintf("data %d %d", goroutineID, j))

				err := backend.Upload(ctx, payload, simplefiles.UploadParams{Bucket: "b", ObjectKey: key})
				assert.NoError(t, err)

				data, err := backend.Download(ctx, "b", key)
				assert.NoError(t, err)
				assert.Equal(t, payload, data)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, numGoroutines*numOperations, backend.Len())
}
