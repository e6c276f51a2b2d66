package hierarchy

import (
	"fmt"
	"strings"
)

var brokenSegments = map[string]struct{}{
	"undefined": {},
	"null":      {},
	"<nil>":     {},
	"NaN":       {},
}

// ValidatePath checks a composed path: leading slash, no empty segments, no
// trailing slash except for "/" itself, and no segment produced by
// stringifying a missing value.
func ValidatePath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path %q must start with /", path)
	}
	if path == "/" {
		return nil
	}
	if strings.HasSuffix(path, "/") {
		return fmt.Errorf("path %q has a trailing slash", path)
	}
	if strings.Contains(path, "//") {
		return fmt.Errorf("path %q contains an empty segment", path)
	}
	if strings.Contains(path, "[object Object]") {
		return fmt.Errorf("path %q contains a serialized object", path)
	}
	for _, segment := range strings.Split(path[1:], "/") {
		if _, broken := brokenSegments[segment]; broken {
			return fmt.Errorf("path %q contains placeholder segment %q", path, segment)
		}
	}
	return nil
}

// ValidateBreadcrumbs checks the breadcrumb trail computed for doc in locale
// against path: the trail ends with the document's own entry, every entry
// path is valid, and path can be recomposed from the slugs.
func ValidateBreadcrumbs(locale string, crumbs []Breadcrumb, ownSlug, ownLabel, path string) error {
	if len(crumbs) == 0 {
		return fmt.Errorf("breadcrumbs are empty")
	}
	last := crumbs[len(crumbs)-1]
	if last.Slug != ownSlug {
		return fmt.Errorf("last breadcrumb slug %q does not match document slug %q", last.Slug, ownSlug)
	}
	if last.Label != ownLabel {
		return fmt.Errorf("last breadcrumb label %q does not match document label %q", last.Label, ownLabel)
	}
	for i, crumb := range crumbs {
		if err := ValidatePath(crumb.Path); err != nil {
			return fmt.Errorf("breadcrumb %d: %w", i, err)
		}
	}
	if composed := ComposePath(PathInput{Locale: locale, Breadcrumbs: crumbs}); composed != path {
		return fmt.Errorf("path %q does not match breadcrumbs %q", path, composed)
	}
	if last.Path != path {
		return fmt.Errorf("path %q does not match last breadcrumb path %q", path, last.Path)
	}
	return nil
}
