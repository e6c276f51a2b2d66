package hierarchy_test

import (
	"slices"
	"testing"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
)

func TestNeedsVirtualFields(t *testing.T) {
	cases := []struct {
		name string
		sel  *hierarchy.Selection
		want bool
	}{
		{name: "nil selects all", sel: nil, want: true},
		{name: "empty selects all", sel: &hierarchy.Selection{}, want: true},
		{name: "include title only", sel: &hierarchy.Selection{Include: []string{"title"}}, want: false},
		{name: "include path", sel: &hierarchy.Selection{Include: []string{"title", "path"}}, want: true},
		{name: "include meta", sel: &hierarchy.Selection{Include: []string{"meta"}}, want: true},
		{name: "include nested alternate", sel: &hierarchy.Selection{Include: []string{"meta.alternatePaths.path"}}, want: true},
		{name: "exclude everything virtual", sel: &hierarchy.Selection{Exclude: []string{"path", "breadcrumbs", "meta"}}, want: false},
		{name: "exclude path only", sel: &hierarchy.Selection{Exclude: []string{"path"}}, want: true},
	}
	for _, tc := range cases {
		if got := hierarchy.NeedsVirtualFields(tc.sel); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSelectionWithDependencies(t *testing.T) {
	col := hierarchy.Collection{ParentFieldName: "parent", BreadcrumbLabelField: "title"}

	include := (&hierarchy.Selection{Include: []string{"path"}}).WithDependencies(col)
	for _, dep := range []string{"slug", "parent", "isRootPage", "title"} {
		if !slices.Contains(include.Include, dep) {
			t.Fatalf("expected include list to gain %q, got %v", dep, include.Include)
		}
	}

	exclude := (&hierarchy.Selection{Exclude: []string{"slug", "body"}}).WithDependencies(col)
	if !slices.Equal(exclude.Exclude, []string{"body"}) {
		t.Fatalf("expected slug exclusion to be dropped, got %v", exclude.Exclude)
	}

	var none *hierarchy.Selection
	if none.WithDependencies(col) != nil {
		t.Fatalf("expected nil selection to stay nil")
	}
}
