package repository

import (
	"context"
	"sync"

	"go-complexity-inspector/pkg/models"
)

// MemoryHistoryRepository keeps the history in process memory
type MemoryHistoryRepository struct {
	mu       sync.RWMutex
	entries  []models.HistoryEntry
	index    map[string]int
	capacity int
	// offset is the number of entries evicted so far; index values are absolute
	offset int
}

// NewMemoryHistoryRepository creates a history holding at most capacity entries.
// A capacity <= 0 means unbounded.
func NewMemoryHistoryRepository(capacity int) *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		index:    make(map[string]int),
		capacity: capacity,
	}
}

func (r *MemoryHistoryRepository) Append(ctx context.Context, entry models.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capacity > 0 && len(r.entries) >= r.capacity {
		delete(r.index, r.entries[0].ID)
		r.entries[0] = models.HistoryEntry{}
		r.entries = r.entries[1:]
		r.offset++
	}
	r.index[entry.ID] = r.offset + len(r.entries)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *MemoryHistoryRepository) List(ctx context.Context) ([]models.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.HistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *MemoryHistoryRepository) Get(ctx context.Context, id string) (models.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return models.HistoryEntry{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return models.HistoryEntry{}, ErrEntryNotFound
	}
	return r.entries[pos-r.offset], nil
}

func (r *MemoryHistoryRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.offset = 0
	clear(r.index)
	return nil
}

func (r *MemoryHistoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
