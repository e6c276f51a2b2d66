package pagetree

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	"github.com/google/uuid"
)

type (
	FieldKind     = interfaces.FieldKind
	FieldSpec     = interfaces.FieldSpec
	FieldRenderer = interfaces.FieldRenderer
)

// Hook signatures bound onto host collections by Plugin.
type (
	BeforeReadHook     func(ctx context.Context, collection string, sel *Selection) *Selection
	AfterReadHook      func(ctx context.Context, doc *Document, opts ReadOptions) (*Document, error)
	BeforeChangeHook   func(ctx context.Context, doc, previous *Document) (*Document, error)
	AfterChangeHook    func(ctx context.Context, doc *Document, locale string) (*Document, error)
	BeforeDeleteHook   func(ctx context.Context, collection string, id uuid.UUID) error
	BeforeValidateHook func(ctx context.Context, draft, existing *Redirect) (*Redirect, error)
)

// CollectionHooks lists the lifecycle hooks of a host collection in
// execution order.
type CollectionHooks struct {
	BeforeRead     []BeforeReadHook
	AfterRead      []AfterReadHook
	BeforeChange   []BeforeChangeHook
	AfterChange    []AfterChangeHook
	BeforeDelete   []BeforeDeleteHook
	BeforeValidate []BeforeValidateHook
}

func (h CollectionHooks) clone() CollectionHooks {
	return CollectionHooks{
		BeforeRead:     slices.Clone(h.BeforeRead),
		AfterRead:      slices.Clone(h.AfterRead),
		BeforeChange:   slices.Clone(h.BeforeChange),
		AfterChange:    slices.Clone(h.AfterChange),
		BeforeDelete:   slices.Clone(h.BeforeDelete),
		BeforeValidate: slices.Clone(h.BeforeValidate),
	}
}

// CollectionSpec describes a host collection.
type CollectionSpec struct {
	Slug   string
	Fields []FieldSpec
	Hooks  CollectionHooks
}

// Field returns the field called name.
func (c CollectionSpec) Field(name string) (FieldSpec, bool) {
	for _, field := range c.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// HostConfig is the part of the host configuration the plugin rewrites.
type HostConfig struct {
	Collections []CollectionSpec
}

// Collection returns the collection called slug.
func (h HostConfig) Collection(slug string) (CollectionSpec, bool) {
	for _, col := range h.Collections {
		if col.Slug == slug {
			return col, true
		}
	}
	return CollectionSpec{}, false
}

// PluginFunc transforms a host configuration.
type PluginFunc func(HostConfig) HostConfig

// Plugin returns the configuration transform that adds the hierarchy fields
// and hooks to every configured collection found in the host configuration,
// and the redirects collection when redirects are enabled. Fields the host
// already declares are left as they are.
func (m *Module) Plugin() PluginFunc {
	return func(host HostConfig) HostConfig {
		out := HostConfig{Collections: make([]CollectionSpec, 0, len(host.Collections)+1)}
		cfg := m.container.Config
		localized := cfg.Localized()

		for _, entry := range host.Collections {
			entry.Fields = slices.Clone(entry.Fields)
			entry.Hooks = entry.Hooks.clone()
			col, ok := m.container.Registry().Collection(entry.Slug)
			if !ok {
				out.Collections = append(out.Collections, entry)
				continue
			}
			for _, field := range hierarchyFields(col, localized) {
				if _, exists := entry.Field(field.Name); !exists {
					entry.Fields = append(entry.Fields, field)
				}
			}
			entry.Hooks.BeforeRead = append(entry.Hooks.BeforeRead, m.BeforeRead)
			entry.Hooks.AfterRead = append(entry.Hooks.AfterRead, m.AfterRead)
			entry.Hooks.BeforeChange = append(entry.Hooks.BeforeChange, m.BeforeChange)
			entry.Hooks.AfterChange = append(entry.Hooks.AfterChange, m.AfterChange)
			if cfg.PreventParentDeletion && len(m.container.Registry().Dependents(col.Slug)) > 0 {
				entry.Hooks.BeforeDelete = append(entry.Hooks.BeforeDelete, m.BeforeDelete)
			}
			out.Collections = append(out.Collections, entry)
		}

		for _, col := range m.container.Registry().Collections() {
			if _, ok := host.Collection(col.Slug); !ok {
				m.logger.Warn("plugin.collection_missing", "collection", col.Slug)
			}
		}

		if cfg.Redirects.Enabled {
			out.Collections = m.withRedirects(out.Collections, cfg.Redirects.Collection)
		}
		return out
	}
}

func (m *Module) withRedirects(collections []CollectionSpec, slug string) []CollectionSpec {
	idx := slices.IndexFunc(collections, func(c CollectionSpec) bool { return c.Slug == slug })
	if idx < 0 {
		collections = append(collections, CollectionSpec{Slug: slug})
		idx = len(collections) - 1
	}
	entry := collections[idx]
	for _, field := range redirectFields() {
		if _, exists := entry.Field(field.Name); !exists {
			entry.Fields = append(entry.Fields, field)
		}
	}
	entry.Hooks.BeforeValidate = append(entry.Hooks.BeforeValidate, m.RedirectBeforeValidate)
	collections[idx] = entry
	return collections
}

func hierarchyFields(col hierarchy.Collection, localized bool) []FieldSpec {
	fields := []FieldSpec{
		{
			Name:        "slug",
			Kind:        interfaces.FieldKindSlug,
			Localized:   localized,
			Indexed:     true,
			Unique:      col.UniqueSlug,
			Description: "URL segment of the document, derived from the title when left empty.",
		},
	}
	if col.ParentCollection != "" {
		fields = append(fields, FieldSpec{
			Name:        col.ParentFieldName,
			Kind:        interfaces.FieldKindRelationship,
			RelationTo:  col.ParentCollection,
			Indexed:     true,
			Description: "Document this one is nested under.",
		})
	}
	if col.IsRootCollection {
		fields = append(fields, FieldSpec{
			Name:        "isRootPage",
			Kind:        interfaces.FieldKindCheckbox,
			Description: "Marks the document as the site root. Its slug is always empty.",
		})
	}
	return append(fields,
		FieldSpec{Name: "path", Kind: interfaces.FieldKindPath, Localized: localized, Virtual: true, ReadOnly: true},
		FieldSpec{Name: "breadcrumbs", Kind: interfaces.FieldKindBreadcrumbs, Localized: localized, Virtual: true, ReadOnly: true},
		FieldSpec{Name: "meta.alternatePaths", Kind: interfaces.FieldKindAlternatePaths, Virtual: true, ReadOnly: true, Hidden: true},
	)
}

func redirectFields() []FieldSpec {
	return []FieldSpec{
		{Name: "sourcePath", Kind: interfaces.FieldKindText, Required: true, Indexed: true},
		{Name: "destinationPath", Kind: interfaces.FieldKindText, Required: true, Indexed: true},
		{
			Name:     "type",
			Kind:     interfaces.FieldKindSelect,
			Required: true,
			Options:  []string{string(RedirectPermanent), string(RedirectTemporary)},
		},
		{Name: "reason", Kind: interfaces.FieldKindText},
	}
}

// RendererRegistry maps field kinds to presentation renderers.
type RendererRegistry struct {
	mu        sync.RWMutex
	renderers map[FieldKind]FieldRenderer
}

// NewRendererRegistry returns an empty registry.
func NewRendererRegistry() *RendererRegistry {
	return &RendererRegistry{renderers: make(map[FieldKind]FieldRenderer)}
}

// Register binds renderer to kind, replacing any previous binding.
func (r *RendererRegistry) Register(kind FieldKind, renderer FieldRenderer) error {
	if kind == "" {
		return errors.New("pagetree: renderer kind is required")
	}
	if renderer == nil {
		return fmt.Errorf("pagetree: renderer for %q is nil", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[kind] = renderer
	return nil
}

// Lookup returns the renderer bound to kind.
func (r *RendererRegistry) Lookup(kind FieldKind) (FieldRenderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[kind]
	return renderer, ok
}

// Render renders value with the renderer bound to field.Kind. Fields without
// a renderer are formatted with fmt.
func (r *RendererRegistry) Render(ctx context.Context, field FieldSpec, value any) (string, error) {
	if renderer, ok := r.Lookup(field.Kind); ok {
		return renderer.RenderField(ctx, field, value)
	}
	if value == nil {
		return "", nil
	}
	return fmt.Sprint(value), nil
}
