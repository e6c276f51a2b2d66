package hierarchy

import "strings"

// PathInput is the argument to ComposePath. An empty Locale means the
// deployment is not localized.
type PathInput struct {
	Locale         string
	Breadcrumbs    []Breadcrumb
	AdditionalSlug string
}

// ComposePath joins the locale prefix, the breadcrumb slugs and the optional
// additional slug into a path. Empty segments are skipped, so the root
// document resolves to "/<locale>" or "/".
func ComposePath(in PathInput) string {
	segments := make([]string, 0, len(in.Breadcrumbs)+2)
	segments = appendSegment(segments, in.Locale)
	for _, crumb := range in.Breadcrumbs {
		segments = appendSegment(segments, crumb.Slug)
	}
	segments = appendSegment(segments, in.AdditionalSlug)
	return "/" + strings.Join(segments, "/")
}

// LocalePrefix is the path of the root document in locale.
func LocalePrefix(locale string) string {
	return ComposePath(PathInput{Locale: locale})
}

func appendSegment(segments []string, value string) []string {
	if trimmed := strings.Trim(value, "/"); trimmed != "" {
		return append(segments, trimmed)
	}
	return segments
}
