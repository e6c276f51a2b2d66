package hierarchy

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AllLocales is the locale sentinel requesting every configured locale at once.
const AllLocales = "all"

// Virtual field names as they appear in field selections.
const (
	FieldPath           = "path"
	FieldBreadcrumbs    = "breadcrumbs"
	FieldMeta           = "meta"
	FieldAlternatePaths = "meta.alternatePaths"
)

// Localized holds one value per locale. Values that are not localized are
// stored under the empty key and apply to every locale.
type Localized map[string]string

// Get returns the value for locale, falling back to the unlocalized entry.
// Empty strings count as absent.
func (l Localized) Get(locale string) (string, bool) {
	if value, ok := l[locale]; ok && value != "" {
		return value, true
	}
	if value, ok := l[""]; ok && value != "" {
		return value, true
	}
	return "", false
}

// Clone returns a copy of l. A nil receiver yields an empty map.
func (l Localized) Clone() Localized {
	out := make(Localized, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Document is a page-like record stored in one of the configured collections.
type Document struct {
	ID         uuid.UUID
	Collection string
	Tenant     string
	IsRootPage bool
	ParentID   *uuid.UUID
	Slug       Localized
	Fields     map[string]Localized
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Virtual is computed on read and after change. It is never persisted.
	Virtual *VirtualFields
}

// Label returns the value of field for locale.
func (d *Document) Label(field, locale string) (string, bool) {
	if d == nil || d.Fields == nil {
		return "", false
	}
	return d.Fields[field].Get(locale)
}

// HasParent reports whether a parent reference is set.
func (d *Document) HasParent() bool {
	return d != nil && d.ParentID != nil && *d.ParentID != uuid.Nil
}

// Clone deep-copies the persisted state of d. Virtual fields are dropped.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Slug = d.Slug.Clone()
	if d.ParentID != nil {
		parent := *d.ParentID
		out.ParentID = &parent
	}
	if d.Fields != nil {
		out.Fields = make(map[string]Localized, len(d.Fields))
		for name, value := range d.Fields {
			out.Fields[name] = value.Clone()
		}
	}
	out.Virtual = nil
	return &out
}

// Breadcrumb is one step from the tree root down to a document.
type Breadcrumb struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// AlternatePath links a locale to the document's path in that locale.
type AlternatePath struct {
	Hreflang string `json:"hreflang"`
	Path     string `json:"path"`
}

// VirtualFields carries the derived path data. Single-locale reads populate
// Path and Breadcrumbs; AllLocales reads populate Paths and
// BreadcrumbsByLocale. Fields the caller did not select stay empty.
type VirtualFields struct {
	Locale              string                  `json:"locale"`
	Path                string                  `json:"path,omitempty"`
	Breadcrumbs         []Breadcrumb            `json:"breadcrumbs,omitempty"`
	Paths               map[string]string       `json:"paths,omitempty"`
	BreadcrumbsByLocale map[string][]Breadcrumb `json:"breadcrumbsByLocale,omitempty"`
	AlternatePaths      []AlternatePath         `json:"alternatePaths,omitempty"`
}

// Collection describes how one collection takes part in the page tree.
type Collection struct {
	Slug                 string
	ParentCollection     string
	ParentFieldName      string
	IsRootCollection     bool
	BreadcrumbLabelField string
	SharedParentDocument bool
	UniqueSlug           bool
	StaticSlug           Localized
	SlugSourceField      string
}

// Filter narrows store queries. Nil pointers and zero values mean "no
// constraint".
type Filter struct {
	Tenant     *string
	ParentID   *uuid.UUID
	Slug       *string
	SlugLocale string
	ExcludeID  uuid.UUID
	RootOnly   bool
	Limit      int
}

// BaseFilter returns the scope the host applies to every internal query for
// collection, typically the current tenant.
type BaseFilter func(ctx context.Context, collection string) Filter

// Store is the read side the hierarchy engine needs from the host.
type Store interface {
	Count(ctx context.Context, collection string, filter Filter) (int, error)
	Find(ctx context.Context, collection string, filter Filter) ([]*Document, error)
	// FindByID returns nil, nil when no document matches.
	FindByID(ctx context.Context, collection string, id uuid.UUID, filter Filter) (*Document, error)
}

// Repository adds persistence on top of Store.
type Repository interface {
	Store
	Create(ctx context.Context, doc *Document) (*Document, error)
	Update(ctx context.Context, doc *Document) (*Document, error)
	Delete(ctx context.Context, collection string, id uuid.UUID) error
}
