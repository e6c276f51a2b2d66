package hierarchy

import (
	"context"
	"fmt"

	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	"github.com/google/uuid"
)

// Guard refuses to delete documents that are still referenced as a parent.
type Guard struct {
	store      Store
	registry   *Registry
	baseFilter BaseFilter
	enabled    bool
	logger     interfaces.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithGuardEnabled toggles the guard. It is on by default.
func WithGuardEnabled(enabled bool) GuardOption {
	return func(g *Guard) {
		g.enabled = enabled
	}
}

// WithGuardBaseFilter scopes the dependent lookups.
func WithGuardBaseFilter(filter BaseFilter) GuardOption {
	return func(g *Guard) {
		g.baseFilter = filter
	}
}

// WithGuardLogger sets the guard logger.
func WithGuardLogger(logger interfaces.Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGuard builds a deletion guard.
func NewGuard(store Store, registry *Registry, opts ...GuardOption) *Guard {
	g := &Guard{
		store:    store,
		registry: registry,
		enabled:  true,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether BeforeDelete checks anything.
func (g *Guard) Enabled() bool {
	return g != nil && g.enabled
}

// Dependents counts, per child collection, the documents whose parent is id.
// Collections without dependents are left out.
func (g *Guard) Dependents(ctx context.Context, collection string, id uuid.UUID) ([]DependentCount, error) {
	var counts []DependentCount
	for _, child := range g.registry.Dependents(collection) {
		filter := Filter{}
		if g.baseFilter != nil {
			filter = g.baseFilter(ctx, child.Slug)
		}
		filter = filter.Merge(Filter{ParentID: &id})

		n, err := g.store.Count(ctx, child.Slug, filter)
		if err != nil {
			return nil, fmt.Errorf("count %s children of %s/%s: %w", child.Slug, collection, id, err)
		}
		if n > 0 {
			counts = append(counts, DependentCount{Collection: child.Slug, Count: n})
		}
	}
	return counts, nil
}

// BeforeDelete returns a conflict error naming every child collection that
// still references the document. The check and the delete are not atomic.
func (g *Guard) BeforeDelete(ctx context.Context, collection string, id uuid.UUID) error {
	if !g.Enabled() {
		return nil
	}
	counts, err := g.Dependents(ctx, collection, id)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		return nil
	}

	blocked := &ParentDeletionBlockedError{Collection: collection, ID: id, Dependents: counts}
	dependents := make(map[string]int, len(counts))
	for _, dep := range counts {
		dependents[dep.Collection] = dep.Count
	}
	logging.WithDocumentContext(g.logger, collection, id.String(), "").
		Info("parent_deletion.blocked", "dependents", dependents)

	return conflictFailure(blocked, CodeParentDeletionBlocked, blocked.Error(), map[string]any{
		"collection": collection,
		"id":         id.String(),
		"dependents": dependents,
	})
}
