package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tendant/simple-files/pkg/simplefiles"
)

type object struct {
	data        []byte
	contentType string
}

// Backend is an in-memory implementation of the simplefiles.ObjectStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string]object // "bucket/key" -> object
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects: make(map[string]object),
	}
}

func bucketKey(bucket, objectKey string) string {
	return bucket + "/" + objectKey
}

// Upload stores a copy of data, replacing any existing object
func (b *Backend) Upload(ctx context.Context, data []byte, params simplefiles.UploadParams) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[bucketKey(params.Bucket, params.ObjectKey)] = object{
		data:        stored,
		contentType: params.ContentType,
	}
	return nil
}

// Download returns a copy of the stored bytes
func (b *Backend) Download(ctx context.Context, bucket, objectKey string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[bucketKey(bucket, objectKey)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", simplefiles.ErrObjectNotFound, objectKey)
	}

	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

// ContentType returns the content type an object was uploaded with
func (b *Backend) ContentType(bucket, objectKey string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[bucketKey(bucket, objectKey)]
	return obj.contentType, exists
}

// Delete removes an object
func (b *Backend) Delete(bucket, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := bucketKey(bucket, objectKey)
	if _, exists := b.objects[key]; !exists {
		return fmt.Errorf("%w: %s", simplefiles.ErrObjectNotFound, objectKey)
	}
	delete(b.objects, key)
	return nil
}

// Len reports how many objects are stored
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
