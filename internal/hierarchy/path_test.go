package hierarchy_test

import (
	"testing"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
)

func TestComposePath(t *testing.T) {
	crumbs := []hierarchy.Breadcrumb{{Slug: ""}, {Slug: "authors"}, {Slug: "/test-author/"}}

	cases := []struct {
		name string
		in   hierarchy.PathInput
		want string
	}{
		{name: "locale and slugs", in: hierarchy.PathInput{Locale: "de", Breadcrumbs: crumbs}, want: "/de/authors/test-author"},
		{name: "no locale", in: hierarchy.PathInput{Breadcrumbs: crumbs}, want: "/authors/test-author"},
		{name: "root only", in: hierarchy.PathInput{Locale: "de", Breadcrumbs: crumbs[:1]}, want: "/de"},
		{name: "empty", in: hierarchy.PathInput{}, want: "/"},
		{name: "additional slug", in: hierarchy.PathInput{Locale: "en", Breadcrumbs: crumbs[:2], AdditionalSlug: "draft"}, want: "/en/authors/draft"},
	}
	for _, tc := range cases {
		if got := hierarchy.ComposePath(tc.in); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestValidatePath(t *testing.T) {
	valid := []string{"/", "/de", "/de/authors/test-author", "/null-hypothesis"}
	for _, path := range valid {
		if err := hierarchy.ValidatePath(path); err != nil {
			t.Fatalf("expected %q to be valid: %v", path, err)
		}
	}

	invalid := []string{"", "de/authors", "/de/", "/de//authors", "/de/undefined", "/de/null/x", "/[object Object]", "/NaN"}
	for _, path := range invalid {
		if err := hierarchy.ValidatePath(path); err == nil {
			t.Fatalf("expected %q to be rejected", path)
		}
	}
}

func TestValidateBreadcrumbsDetectsMismatch(t *testing.T) {
	crumbs := []hierarchy.Breadcrumb{
		{Slug: "authors", Label: "Authors", Path: "/de/authors"},
		{Slug: "test-author", Label: "Test Author", Path: "/de/authors/test-author"},
	}
	if err := hierarchy.ValidateBreadcrumbs("de", crumbs, "test-author", "Test Author", "/de/authors/test-author"); err != nil {
		t.Fatalf("expected consistent trail: %v", err)
	}
	if err := hierarchy.ValidateBreadcrumbs("de", crumbs, "other", "Test Author", "/de/authors/test-author"); err == nil {
		t.Fatalf("expected slug mismatch to fail")
	}
	if err := hierarchy.ValidateBreadcrumbs("de", crumbs, "test-author", "Test Author", "/de/test-author"); err == nil {
		t.Fatalf("expected path mismatch to fail")
	}
	if err := hierarchy.ValidateBreadcrumbs("de", nil, "", "", "/de"); err == nil {
		t.Fatalf("expected empty trail to fail")
	}
}
