package hierarchy

import (
	"fmt"
	"sort"
	"strings"
)

const (
	defaultParentFieldName      = "parent"
	defaultBreadcrumbLabelField = "title"
)

// Registry indexes the collections taking part in the page tree.
type Registry struct {
	collections map[string]Collection
	order       []string
}

// NewRegistry validates the collection graph and applies field defaults.
func NewRegistry(collections ...Collection) (*Registry, error) {
	reg := &Registry{collections: make(map[string]Collection, len(collections))}
	for _, col := range collections {
		col.Slug = strings.TrimSpace(col.Slug)
		if col.Slug == "" {
			return nil, fmt.Errorf("%w: collection slug is required", ErrCollectionConfig)
		}
		if _, exists := reg.collections[col.Slug]; exists {
			return nil, fmt.Errorf("%w: duplicate collection %q", ErrCollectionConfig, col.Slug)
		}
		if col.ParentFieldName == "" {
			col.ParentFieldName = defaultParentFieldName
		}
		if col.BreadcrumbLabelField == "" {
			col.BreadcrumbLabelField = defaultBreadcrumbLabelField
		}
		if col.SlugSourceField == "" {
			col.SlugSourceField = col.BreadcrumbLabelField
		}
		reg.collections[col.Slug] = col
		reg.order = append(reg.order, col.Slug)
	}

	for _, slug := range reg.order {
		col := reg.collections[slug]
		if col.ParentCollection == "" {
			if !col.IsRootCollection {
				return nil, fmt.Errorf("%w: collection %q needs a parent collection", ErrCollectionConfig, slug)
			}
			continue
		}
		if _, ok := reg.collections[col.ParentCollection]; !ok {
			return nil, fmt.Errorf("%w: collection %q references unknown parent collection %q", ErrCollectionConfig, slug, col.ParentCollection)
		}
	}
	return reg, nil
}

// Collection looks up a collection by slug.
func (r *Registry) Collection(slug string) (Collection, bool) {
	if r == nil {
		return Collection{}, false
	}
	col, ok := r.collections[slug]
	return col, ok
}

// MustCollection is Collection returning ErrUnknownCollection on a miss.
func (r *Registry) MustCollection(slug string) (Collection, error) {
	col, ok := r.Collection(slug)
	if !ok {
		return Collection{}, &UnknownCollectionError{Collection: slug}
	}
	return col, nil
}

// Dependents lists collections whose parent field points at slug, sorted by
// slug.
func (r *Registry) Dependents(slug string) []Collection {
	if r == nil {
		return nil
	}
	var out []Collection
	for _, name := range r.order {
		if col := r.collections[name]; col.ParentCollection == slug {
			out = append(out, col)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Collections returns every collection in registration order.
func (r *Registry) Collections() []Collection {
	if r == nil {
		return nil
	}
	out := make([]Collection, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.collections[name])
	}
	return out
}
