package hierarchy

// isRootDocument reports whether doc is the tree root of its collection.
func isRootDocument(col Collection, doc *Document) bool {
	return col.IsRootCollection && doc != nil && doc.IsRootPage
}

// RootBreadcrumbs builds the single-entry trail of the root document for
// every locale. The root has no slug and lives at the locale prefix.
func RootBreadcrumbs(doc *Document, col Collection, locales []string) map[string][]Breadcrumb {
	out := make(map[string][]Breadcrumb, len(locales))
	for _, locale := range locales {
		label, _ := doc.Label(col.BreadcrumbLabelField, locale)
		out[locale] = []Breadcrumb{{
			Slug:  "",
			Label: label,
			Path:  LocalePrefix(locale),
		}}
	}
	return out
}

// ResetRoot clears the slug in every locale and drops the parent reference.
func ResetRoot(doc *Document, locales []string) {
	if doc.Slug == nil {
		doc.Slug = Localized{}
	}
	for key := range doc.Slug {
		doc.Slug[key] = ""
	}
	for _, locale := range locales {
		doc.Slug[locale] = ""
	}
	doc.ParentID = nil
}
