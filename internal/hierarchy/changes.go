package hierarchy

import (
	"context"
	"fmt"

	"github.com/goliatone/go-pagetree/internal/slugs"
	"github.com/google/uuid"
)

// ChangeNormalizer prepares documents for persistence: it shapes slugs,
// handles the root document and checks the parent reference.
type ChangeNormalizer struct {
	store    Store
	registry *Registry
	resolver *Resolver
}

// NewChangeNormalizer builds a ChangeNormalizer sharing resolver's locales
// and base filter.
func NewChangeNormalizer(store Store, registry *Registry, resolver *Resolver) *ChangeNormalizer {
	return &ChangeNormalizer{store: store, registry: registry, resolver: resolver}
}

// BeforeChange normalizes a copy of doc. previous is the stored version on
// update and nil on create. A document turning into the root loses its slugs
// and parent; an existing root rejects a non-empty slug.
func (n *ChangeNormalizer) BeforeChange(ctx context.Context, doc, previous *Document) (*Document, error) {
	col, err := n.registry.MustCollection(doc.Collection)
	if err != nil {
		return nil, validationFailure(err, CodeUnknownCollection, "unknown collection")
	}

	out := doc.Clone()
	if previous != nil {
		if out.ID == uuid.Nil {
			out.ID = previous.ID
		}
		if out.Tenant == "" {
			out.Tenant = previous.Tenant
		}
		out.CreatedAt = previous.CreatedAt
	}
	if out.Tenant == "" {
		if scope := n.resolver.Scope(ctx, col.Slug); scope.Tenant != nil {
			out.Tenant = *scope.Tenant
		}
	}
	if !col.IsRootCollection {
		out.IsRootPage = false
	}

	if isRootDocument(col, out) {
		ResetRoot(out, n.localeKeys())
		return out, nil
	}
	n.shapeSlugs(out, col)
	if !hasAnySlug(out) {
		return nil, validationFailure(ErrSlugRequired, CodeSlugRequired, "slug is required")
	}

	if col.SharedParentDocument {
		if err := n.assignSharedParent(ctx, out, col); err != nil {
			return nil, err
		}
	}
	if err := n.checkParent(ctx, out, col); err != nil {
		return nil, err
	}
	if col.UniqueSlug {
		if err := n.checkUnique(ctx, out, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (n *ChangeNormalizer) localeKeys() []string {
	return n.resolver.ConfiguredLocales()
}

func (n *ChangeNormalizer) shapeSlugs(doc *Document, col Collection) {
	if doc.Slug == nil {
		doc.Slug = Localized{}
	}
	for key, value := range doc.Slug {
		doc.Slug[key] = slugs.Format(value)
	}
	for _, locale := range n.localeKeys() {
		if doc.Slug[locale] != "" {
			continue
		}
		if static, ok := col.StaticSlug.Get(locale); ok {
			doc.Slug[locale] = slugs.Format(static)
			continue
		}
		if source, ok := doc.Label(col.SlugSourceField, locale); ok {
			if slug := slugs.Format(source); slug != "" {
				doc.Slug[locale] = slug
			}
		}
	}
	for key, value := range doc.Slug {
		if value == "" {
			delete(doc.Slug, key)
		}
	}
}

func (n *ChangeNormalizer) assignSharedParent(ctx context.Context, doc *Document, col Collection) error {
	filter := n.resolver.Scope(ctx, col.ParentCollection).Merge(Filter{Tenant: &doc.Tenant, Limit: 1})
	parents, err := n.store.Find(ctx, col.ParentCollection, filter)
	if err != nil {
		return fmt.Errorf("find shared parent in %s: %w", col.ParentCollection, err)
	}
	if len(parents) == 0 {
		return validationFailure(fmt.Errorf("%w: no document in %q to share", ErrParentRequired, col.ParentCollection), CodeParentRequired, "shared parent document is missing")
	}
	id := parents[0].ID
	doc.ParentID = &id
	return nil
}

func (n *ChangeNormalizer) checkParent(ctx context.Context, doc *Document, col Collection) error {
	if !doc.HasParent() {
		doc.ParentID = nil
		if col.IsRootCollection {
			return nil
		}
		return validationFailure(ErrParentRequired, CodeParentRequired, "parent is required")
	}

	filter := n.resolver.Scope(ctx, col.ParentCollection).Merge(Filter{Tenant: &doc.Tenant})
	parent, err := n.store.FindByID(ctx, col.ParentCollection, *doc.ParentID, filter)
	if err != nil {
		return fmt.Errorf("load parent %s/%s: %w", col.ParentCollection, *doc.ParentID, err)
	}
	if parent == nil {
		return validationFailure(fmt.Errorf("%w: %s/%s", ErrParentInvalid, col.ParentCollection, *doc.ParentID), CodeParentInvalid, "parent does not exist")
	}
	if col.ParentCollection == doc.Collection && parent.ID == doc.ID {
		return validationFailure(ErrParentCycle, CodeParentCycle, "a document cannot be its own parent")
	}
	if parent.Collection == "" {
		parent.Collection = col.ParentCollection
	}

	if doc.ID != uuid.Nil {
		cycle, err := n.resolver.IsAncestor(ctx, parent, doc.Collection, doc.ID)
		if err != nil {
			return err
		}
		if cycle {
			return validationFailure(ErrParentCycle, CodeParentCycle, "parent assignment creates a cycle")
		}
	}
	return nil
}

func (n *ChangeNormalizer) checkUnique(ctx context.Context, doc *Document, col Collection) error {
	for locale, slug := range doc.Slug {
		filter := n.resolver.Scope(ctx, col.Slug).Merge(Filter{
			Tenant:     &doc.Tenant,
			Slug:       &slug,
			SlugLocale: locale,
			ExcludeID:  doc.ID,
		})
		count, err := n.store.Count(ctx, col.Slug, filter)
		if err != nil {
			return fmt.Errorf("check slug %q in %s: %w", slug, col.Slug, err)
		}
		if count > 0 {
			return validationFailure(&SlugExistsError{Collection: col.Slug, Locale: locale, Slug: slug}, CodeSlugExists, "slug already exists")
		}
	}
	return nil
}

func hasAnySlug(doc *Document) bool {
	for _, value := range doc.Slug {
		if value != "" {
			return true
		}
	}
	return false
}
