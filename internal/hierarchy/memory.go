package hierarchy

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory document store for scaffolding/tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	docs  map[string]map[uuid.UUID]*Document
	clock func() time.Time
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		docs:  make(map[string]map[uuid.UUID]*Document),
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts doc, assigning an id when it has none. Ids are unique
// across collections.
func (m *MemoryRepository) Create(_ context.Context, doc *Document) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := doc.Clone()
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	for _, bucket := range m.docs {
		if _, ok := bucket[copied.ID]; ok {
			return nil, &DocumentExistsError{Collection: copied.Collection, ID: copied.ID}
		}
	}
	now := m.clock()
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = now
	}
	copied.UpdatedAt = now

	bucket, ok := m.docs[copied.Collection]
	if !ok {
		bucket = make(map[uuid.UUID]*Document)
		m.docs[copied.Collection] = bucket
	}
	bucket[copied.ID] = copied
	return copied.Clone(), nil
}

// Update replaces the stored document.
func (m *MemoryRepository) Update(_ context.Context, doc *Document) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.docs[doc.Collection][doc.ID]
	if !ok {
		return nil, &DocumentNotFoundError{Collection: doc.Collection, ID: doc.ID}
	}
	updated := doc.Clone()
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = m.clock()
	m.docs[doc.Collection][doc.ID] = updated
	return updated.Clone(), nil
}

// Delete removes the document.
func (m *MemoryRepository) Delete(_ context.Context, collection string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[collection][id]; !ok {
		return &DocumentNotFoundError{Collection: collection, ID: id}
	}
	delete(m.docs[collection], id)
	return nil
}

// Count returns the number of documents in collection matching filter.
func (m *MemoryRepository) Count(_ context.Context, collection string, filter Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, doc := range m.docs[collection] {
		if filter.Matches(doc) {
			count++
		}
	}
	return count, nil
}

// Find lists matching documents, oldest first.
func (m *MemoryRepository) Find(_ context.Context, collection string, filter Filter) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Document, 0)
	for _, doc := range m.docs[collection] {
		if filter.Matches(doc) {
			out = append(out, doc.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// FindByID returns the document when it exists and matches filter.
func (m *MemoryRepository) FindByID(_ context.Context, collection string, id uuid.UUID, filter Filter) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[collection][id]
	if !ok || !filter.Matches(doc) {
		return nil, nil
	}
	return doc.Clone(), nil
}
