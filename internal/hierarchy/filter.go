package hierarchy

import "github.com/google/uuid"

// Merge overlays the constraints set on other onto f.
func (f Filter) Merge(other Filter) Filter {
	out := f
	if other.Tenant != nil {
		tenant := *other.Tenant
		out.Tenant = &tenant
	}
	if other.ParentID != nil {
		parent := *other.ParentID
		out.ParentID = &parent
	}
	if other.Slug != nil {
		slug := *other.Slug
		out.Slug = &slug
		out.SlugLocale = other.SlugLocale
	}
	if other.ExcludeID != uuid.Nil {
		out.ExcludeID = other.ExcludeID
	}
	if other.RootOnly {
		out.RootOnly = true
	}
	if other.Limit > 0 {
		out.Limit = other.Limit
	}
	return out
}

// Matches evaluates f against doc. Limit is ignored.
func (f Filter) Matches(doc *Document) bool {
	if doc == nil {
		return false
	}
	if f.Tenant != nil && doc.Tenant != *f.Tenant {
		return false
	}
	if f.ParentID != nil {
		if !doc.HasParent() || *doc.ParentID != *f.ParentID {
			return false
		}
	}
	if f.ExcludeID != uuid.Nil && doc.ID == f.ExcludeID {
		return false
	}
	if f.RootOnly && !doc.IsRootPage {
		return false
	}
	if f.Slug != nil {
		value, ok := doc.Slug[f.SlugLocale]
		if !ok || value != *f.Slug {
			return false
		}
	}
	return true
}

// TenantFilter scopes a query to tenant.
func TenantFilter(tenant string) Filter {
	return Filter{Tenant: &tenant}
}
