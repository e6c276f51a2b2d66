package redirects

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory redirect store for scaffolding/tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	redirects map[uuid.UUID]*Redirect
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{redirects: make(map[uuid.UUID]*Redirect)}
}

// Create inserts record, assigning a random id when it has none.
func (m *MemoryRepository) Create(_ context.Context, record *Redirect) (*Redirect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	if _, ok := m.redirects[copied.ID]; ok {
		return nil, &ExistsError{ID: copied.ID}
	}
	now := time.Now().UTC()
	copied.CreatedAt = now
	copied.UpdatedAt = now
	m.redirects[copied.ID] = &copied
	out := copied
	return &out, nil
}

// Update replaces a stored redirect.
func (m *MemoryRepository) Update(_ context.Context, record *Redirect) (*Redirect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.redirects[record.ID]
	if !ok {
		return nil, &NotFoundError{ID: record.ID}
	}
	copied := *record
	copied.CreatedAt = current.CreatedAt
	copied.UpdatedAt = time.Now().UTC()
	m.redirects[record.ID] = &copied
	out := copied
	return &out, nil
}

// GetByID retrieves a redirect.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Redirect, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.redirects[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	out := *record
	return &out, nil
}

// List returns matching redirects ordered by source path.
func (m *MemoryRepository) List(_ context.Context, filter Filter) ([]*Redirect, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Redirect, 0, len(m.redirects))
	for _, record := range m.redirects {
		if filter.Matches(record) {
			copied := *record
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourcePath < out[j].SourcePath })
	return out, nil
}

// Count returns the number of matching redirects.
func (m *MemoryRepository) Count(_ context.Context, filter Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, record := range m.redirects {
		if filter.Matches(record) {
			count++
		}
	}
	return count, nil
}

// Delete removes a redirect.
func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.redirects[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(m.redirects, id)
	return nil
}
