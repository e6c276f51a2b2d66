package hierarchy

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// DefaultMaxDepth bounds the ancestor walk.
const DefaultMaxDepth = 32

// Resolver walks parent references and folds them into breadcrumb trails.
type Resolver struct {
	store      Store
	registry   *Registry
	locales    []string
	maxDepth   int
	baseFilter BaseFilter
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLocales sets the configured locales. Without locales the deployment is
// treated as unlocalized and paths carry no locale prefix.
func WithLocales(locales ...string) ResolverOption {
	return func(r *Resolver) {
		r.locales = slices.Clone(locales)
	}
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) ResolverOption {
	return func(r *Resolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithBaseFilter scopes every ancestor lookup.
func WithBaseFilter(filter BaseFilter) ResolverOption {
	return func(r *Resolver) {
		r.baseFilter = filter
	}
}

// NewResolver builds a Resolver reading ancestors from store.
func NewResolver(store Store, registry *Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:    store,
		registry: registry,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Localized reports whether locales are configured.
func (r *Resolver) Localized() bool {
	return len(r.locales) > 0
}

// ConfiguredLocales returns the locales trails are computed for. An
// unlocalized deployment yields the single empty locale.
func (r *Resolver) ConfiguredLocales() []string {
	if !r.Localized() {
		return []string{""}
	}
	return slices.Clone(r.locales)
}

// Locales expands a requested locale (a code or AllLocales) into the list of
// locale keys to compute.
func (r *Resolver) Locales(requested string) ([]string, error) {
	if requested == AllLocales || !r.Localized() {
		return r.ConfiguredLocales(), nil
	}
	if !slices.Contains(r.locales, requested) {
		return nil, validationFailure(fmt.Errorf("%w: %q", ErrUnknownLocale, requested), CodeUnknownLocale, "unknown locale")
	}
	return []string{requested}, nil
}

// Scope returns the base filter for collection, or an empty filter.
func (r *Resolver) Scope(ctx context.Context, collection string) Filter {
	if r.baseFilter == nil {
		return Filter{}
	}
	return r.baseFilter(ctx, collection)
}

// Breadcrumbs resolves the trail of doc for locale (a code or AllLocales).
// Locales in which doc or one of its ancestors has no slug are left out of
// the result.
func (r *Resolver) Breadcrumbs(ctx context.Context, doc *Document, locale string) (map[string][]Breadcrumb, error) {
	locales, err := r.Locales(locale)
	if err != nil {
		return nil, err
	}
	chain, err := r.Ancestors(ctx, doc)
	if err != nil {
		return nil, err
	}
	chain = append(chain, doc)

	out := make(map[string][]Breadcrumb, len(locales))
	for _, loc := range locales {
		if crumbs, ok := r.trail(chain, loc); ok {
			out[loc] = crumbs
		}
	}
	return out, nil
}

// Ancestors loads the parent chain of doc, root first. Each level is fetched
// only after the previous one, since its id comes from that fetch.
func (r *Resolver) Ancestors(ctx context.Context, doc *Document) ([]*Document, error) {
	chain, _, err := r.walk(ctx, doc, "")
	if err != nil {
		return nil, err
	}
	slices.Reverse(chain)
	return chain, nil
}

// IsAncestor reports whether target appears in the parent chain starting at
// doc's parent.
func (r *Resolver) IsAncestor(ctx context.Context, doc *Document, targetCollection string, targetID uuid.UUID) (bool, error) {
	_, hit, err := r.walk(ctx, doc, nodeKey(targetCollection, targetID))
	return hit, err
}

// walk follows parent references upward from doc, child first. It stops
// early, reporting hit, when it reaches the node identified by target.
func (r *Resolver) walk(ctx context.Context, doc *Document, target string) ([]*Document, bool, error) {
	var chain []*Document
	visited := map[string]struct{}{nodeKey(doc.Collection, doc.ID): {}}

	current := doc
	for current.HasParent() {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		if len(chain) >= r.maxDepth {
			return nil, false, internalFailure(&InvariantError{
				Err:        ErrHierarchyTooDeep,
				Collection: doc.Collection,
				ID:         doc.ID,
				Reason:     fmt.Sprintf("more than %d ancestors", r.maxDepth),
			}, CodeHierarchyTooDeep, "page tree is deeper than allowed")
		}

		col, err := r.registry.MustCollection(current.Collection)
		if err != nil {
			return nil, false, internalFailure(err, CodeUnknownCollection, "document belongs to an unknown collection")
		}

		parentID := *current.ParentID
		key := nodeKey(col.ParentCollection, parentID)
		if target != "" && key == target {
			return chain, true, nil
		}
		if _, seen := visited[key]; seen {
			return nil, false, internalFailure(&InvariantError{
				Err:        ErrHierarchyCycle,
				Collection: doc.Collection,
				ID:         doc.ID,
				Reason:     fmt.Sprintf("%s/%s visited twice", col.ParentCollection, parentID),
			}, CodeHierarchyCycle, "page tree contains a cycle")
		}
		visited[key] = struct{}{}

		parent, err := r.store.FindByID(ctx, col.ParentCollection, parentID, r.Scope(ctx, col.ParentCollection))
		if err != nil {
			return nil, false, fmt.Errorf("load parent %s/%s: %w", col.ParentCollection, parentID, err)
		}
		if parent == nil {
			return nil, false, internalFailure(&ParentNotFoundError{
				Collection: col.ParentCollection,
				ParentID:   parentID,
				ChildID:    current.ID,
			}, CodeParentNotFound, "parent document not found")
		}
		if parent.Collection == "" {
			parent.Collection = col.ParentCollection
		}
		chain = append(chain, parent)
		current = parent
	}
	return chain, false, nil
}

// trail folds a root-first chain into breadcrumbs for locale. It reports
// false when a node has no slug in locale.
func (r *Resolver) trail(chain []*Document, locale string) ([]Breadcrumb, bool) {
	crumbs := make([]Breadcrumb, 0, len(chain))
	for _, node := range chain {
		col, _ := r.registry.Collection(node.Collection)
		crumb := Breadcrumb{}
		if !isRootDocument(col, node) {
			slug, ok := node.Slug.Get(locale)
			if !ok {
				return nil, false
			}
			crumb.Slug = slug
		}
		crumb.Label, _ = node.Label(col.BreadcrumbLabelField, locale)
		crumbs = append(crumbs, crumb)
		crumbs[len(crumbs)-1].Path = ComposePath(PathInput{Locale: locale, Breadcrumbs: crumbs})
	}
	return crumbs, true
}

func nodeKey(collection string, id uuid.UUID) string {
	return collection + ":" + id.String()
}
