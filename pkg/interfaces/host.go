package interfaces

import "context"

// FieldKind identifies the storage and presentation shape of a host field.
type FieldKind string

const (
	FieldKindText           FieldKind = "text"
	FieldKindSlug           FieldKind = "slug"
	FieldKindRelationship   FieldKind = "relationship"
	FieldKindCheckbox       FieldKind = "checkbox"
	FieldKindPath           FieldKind = "path"
	FieldKindBreadcrumbs    FieldKind = "breadcrumbs"
	FieldKindAlternatePaths FieldKind = "alternate_paths"
	FieldKindSelect         FieldKind = "select"
)

// FieldSpec describes one field of a host collection.
type FieldSpec struct {
	Name      string
	Kind      FieldKind
	Localized bool
	Required  bool
	Unique    bool
	Indexed   bool
	// Virtual fields are computed on read and never persisted.
	Virtual     bool
	ReadOnly    bool
	Hidden      bool
	RelationTo  string
	Options     []string
	Description string
}

// FieldRenderer renders a field value for presentation. Hosts register one per
// FieldKind they want to customise.
type FieldRenderer interface {
	RenderField(ctx context.Context, field FieldSpec, value any) (string, error)
}

// FieldRendererFunc adapts a function to FieldRenderer.
type FieldRendererFunc func(ctx context.Context, field FieldSpec, value any) (string, error)

func (fn FieldRendererFunc) RenderField(ctx context.Context, field FieldSpec, value any) (string, error) {
	return fn(ctx, field, value)
}
