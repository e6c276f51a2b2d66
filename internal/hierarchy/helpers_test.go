package hierarchy_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/google/uuid"
)

type fixture struct {
	store        *hierarchy.MemoryRepository
	registry     *hierarchy.Registry
	resolver     *hierarchy.Resolver
	materializer *hierarchy.Materializer
	changes      *hierarchy.ChangeNormalizer
	guard        *hierarchy.Guard
}

func defaultCollections() []hierarchy.Collection {
	return []hierarchy.Collection{
		{Slug: "pages", ParentCollection: "pages", IsRootCollection: true, UniqueSlug: true},
		{Slug: "authors", ParentCollection: "pages", UniqueSlug: true},
	}
}

func newFixture(t *testing.T, resolverOpts []hierarchy.ResolverOption, materializerOpts ...hierarchy.MaterializerOption) *fixture {
	t.Helper()

	registry, err := hierarchy.NewRegistry(defaultCollections()...)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	store := hierarchy.NewMemoryRepository()
	return wireFixture(store, registry, resolverOpts, materializerOpts...)
}

func wireFixture(store *hierarchy.MemoryRepository, registry *hierarchy.Registry, resolverOpts []hierarchy.ResolverOption, materializerOpts ...hierarchy.MaterializerOption) *fixture {
	resolver := hierarchy.NewResolver(store, registry, resolverOpts...)
	return &fixture{
		store:        store,
		registry:     registry,
		resolver:     resolver,
		materializer: hierarchy.NewMaterializer(resolver, registry, materializerOpts...),
		changes:      hierarchy.NewChangeNormalizer(store, registry, resolver),
		guard:        hierarchy.NewGuard(store, registry),
	}
}

func localizedFixture(t *testing.T, materializerOpts ...hierarchy.MaterializerOption) *fixture {
	return newFixture(t, []hierarchy.ResolverOption{hierarchy.WithLocales("de", "en")}, materializerOpts...)
}

// save runs the change hook and persists the result.
func (f *fixture) save(t *testing.T, doc *hierarchy.Document) *hierarchy.Document {
	t.Helper()
	ctx := context.Background()

	normalized, err := f.changes.BeforeChange(ctx, doc, nil)
	if err != nil {
		t.Fatalf("before change %s: %v", doc.Collection, err)
	}
	created, err := f.store.Create(ctx, normalized)
	if err != nil {
		t.Fatalf("create %s: %v", doc.Collection, err)
	}
	return created
}

func page(collection string, title hierarchy.Localized, parent *hierarchy.Document) *hierarchy.Document {
	doc := &hierarchy.Document{
		Collection: collection,
		Fields:     map[string]hierarchy.Localized{"title": title},
	}
	if parent != nil {
		id := parent.ID
		doc.ParentID = &id
	}
	return doc
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
