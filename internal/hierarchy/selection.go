package hierarchy

import "strings"

// Selection describes which fields a read asked for. A nil Selection, or one
// with neither list set, selects everything. Include wins over Exclude when
// both are given.
type Selection struct {
	Include []string
	Exclude []string
}

// Selects reports whether field is part of the selection. Dotted names are
// matched against their ancestors too: including "meta" selects
// "meta.alternatePaths", and including "meta.alternatePaths.path" selects
// "meta.alternatePaths".
func (s *Selection) Selects(field string) bool {
	if s == nil {
		return true
	}
	if len(s.Include) > 0 {
		for _, name := range s.Include {
			if related(name, field) {
				return true
			}
		}
		return false
	}
	for _, name := range s.Exclude {
		if covers(name, field) {
			return false
		}
	}
	return true
}

// NeedsVirtualFields decides whether a read has to compute path data at all.
// It errs on the side of computing.
func NeedsVirtualFields(sel *Selection) bool {
	return sel.Selects(FieldPath) || sel.Selects(FieldBreadcrumbs) || sel.Selects(FieldAlternatePaths)
}

// WithDependencies widens an include-list with the stored fields the virtual
// fields are computed from. Exclude-lists lose any entry that would hide one
// of those fields.
func (s *Selection) WithDependencies(col Collection) *Selection {
	if s == nil {
		return nil
	}
	deps := []string{"slug", col.ParentFieldName, "isRootPage", col.BreadcrumbLabelField}
	out := &Selection{}
	if len(s.Include) > 0 {
		out.Include = append(out.Include, s.Include...)
		for _, dep := range deps {
			if !out.Selects(dep) {
				out.Include = append(out.Include, dep)
			}
		}
		return out
	}
	for _, name := range s.Exclude {
		hides := false
		for _, dep := range deps {
			if covers(name, dep) {
				hides = true
				break
			}
		}
		if !hides {
			out.Exclude = append(out.Exclude, name)
		}
	}
	return out
}

// covers reports whether selecting name also selects field.
func covers(name, field string) bool {
	name = strings.TrimSpace(name)
	return name == field || strings.HasPrefix(field, name+".")
}

func related(name, field string) bool {
	name = strings.TrimSpace(name)
	return covers(name, field) || strings.HasPrefix(name, field+".")
}
