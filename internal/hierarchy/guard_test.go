package hierarchy_test

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/pkg/testsupport"
)

func TestGuardBlocksDeletingReferencedParent(t *testing.T) {
	f := localizedFixture(t)
	ctx := context.Background()

	parent := f.save(t, page("pages", hierarchy.Localized{"de": "Eltern"}, nil))
	child := f.save(t, page("pages", hierarchy.Localized{"de": "Kind"}, parent))

	err := f.guard.BeforeDelete(ctx, "pages", parent.ID)
	if !errors.Is(err, hierarchy.ErrParentDeletionDenied) {
		t.Fatalf("expected ErrParentDeletionDenied, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryConflict) {
		t.Fatalf("expected conflict category, got %v", err)
	}

	if err := f.store.Delete(ctx, "pages", child.ID); err != nil {
		t.Fatalf("delete child: %v", err)
	}
	if err := f.guard.BeforeDelete(ctx, "pages", parent.ID); err != nil {
		t.Fatalf("expected delete to be allowed once the child is gone: %v", err)
	}
}

func TestGuardAttributesDependentsPerCollection(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	f := localizedFixture(t)
	guard := hierarchy.NewGuard(f.store, f.registry, hierarchy.WithGuardLogger(logger))
	ctx := context.Background()

	parent := f.save(t, page("pages", hierarchy.Localized{"de": "Team"}, nil))
	f.save(t, page("pages", hierarchy.Localized{"de": "Jobs"}, parent))
	f.save(t, page("authors", hierarchy.Localized{"de": "Jane"}, parent))
	f.save(t, page("authors", hierarchy.Localized{"de": "John"}, parent))

	err := guard.BeforeDelete(ctx, "pages", parent.ID)
	var blocked *hierarchy.ParentDeletionBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected ParentDeletionBlockedError, got %v", err)
	}
	want := []hierarchy.DependentCount{{Collection: "authors", Count: 2}, {Collection: "pages", Count: 1}}
	if len(blocked.Dependents) != len(want) {
		t.Fatalf("unexpected dependents %+v", blocked.Dependents)
	}
	for i := range want {
		if blocked.Dependents[i] != want[i] {
			t.Fatalf("dependent %d: expected %+v, got %+v", i, want[i], blocked.Dependents[i])
		}
	}
	if blocked.Total() != 3 {
		t.Fatalf("expected 3 dependents, got %d", blocked.Total())
	}

	var richErr *goerrors.Error
	if !errors.As(err, &richErr) {
		t.Fatalf("expected go-errors error, got %T", err)
	}
	dependents, ok := richErr.Metadata["dependents"].(map[string]int)
	if !ok || dependents["authors"] != 2 {
		t.Fatalf("unexpected metadata %+v", richErr.Metadata)
	}
	if len(logger.Messages("info")) != 1 {
		t.Fatalf("expected one blocked log entry, got %+v", logger.Entries())
	}
}

func TestGuardDisabled(t *testing.T) {
	f := localizedFixture(t)
	guard := hierarchy.NewGuard(f.store, f.registry, hierarchy.WithGuardEnabled(false))

	parent := f.save(t, page("pages", hierarchy.Localized{"de": "Eltern"}, nil))
	f.save(t, page("pages", hierarchy.Localized{"de": "Kind"}, parent))

	if err := guard.BeforeDelete(context.Background(), "pages", parent.ID); err != nil {
		t.Fatalf("expected disabled guard to allow delete: %v", err)
	}
}

func TestGuardScopesDependentsByBaseFilter(t *testing.T) {
	f := localizedFixture(t)
	ctx := context.Background()

	parent := f.save(t, &hierarchy.Document{
		Collection: "pages",
		Tenant:     "acme",
		Fields:     map[string]hierarchy.Localized{"title": {"de": "Team"}},
	})
	child := page("authors", hierarchy.Localized{"de": "Jane"}, parent)
	child.Tenant = "acme"
	f.save(t, child)

	guard := hierarchy.NewGuard(f.store, f.registry, hierarchy.WithGuardBaseFilter(func(context.Context, string) hierarchy.Filter {
		return hierarchy.TenantFilter("globex")
	}))
	if err := guard.BeforeDelete(ctx, "pages", parent.ID); err != nil {
		t.Fatalf("expected children of other tenants to be invisible: %v", err)
	}
}
