package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-files/pkg/simplefiles"
)

// Repository implements simplefiles.Repository using in-memory storage
type Repository struct {
	mu      sync.RWMutex
	records []*simplefiles.FileRecord
	byID    map[uuid.UUID]int // id -> index into records
	failOn  error
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		byID: make(map[uuid.UUID]int),
	}
}

// FailSaves makes every subsequent Save return err; nil restores normal behaviour.
func (r *Repository) FailSaves(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn = err
}

func (r *Repository) FindAll(ctx context.Context) ([]*simplefiles.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simplefiles.FileRecord, 0, len(r.records))
	for _, record := range r.records {
		recordCopy := *record
		result = append(result, &recordCopy)
	}
	return result, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*simplefiles.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, exists := r.byID[id]
	if !exists {
		return nil, simplefiles.ErrFileNotFound
	}
	recordCopy := *r.records[idx]
	return &recordCopy, nil
}

func (r *Repository) Save(ctx context.Context, record *simplefiles.FileRecord) (*simplefiles.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failOn != nil {
		return nil, r.failOn
	}

	recordCopy := *record
	if recordCopy.ID == uuid.Nil {
		recordCopy.ID = uuid.New()
	}
	r.byID[recordCopy.ID] = len(r.records)
	r.records = append(r.records, &recordCopy)

	saved := recordCopy
	return &saved, nil
}
