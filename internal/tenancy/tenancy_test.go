package tenancy

import (
	"context"
	"testing"
)

func TestTenantRoundTrip(t *testing.T) {
	ctx := ContextWithTenant(context.Background(), " acme ")
	tenant, ok := FromContext(ctx)
	if !ok || tenant != "acme" {
		t.Fatalf("expected acme, got %q (%v)", tenant, ok)
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("expected empty context to carry no tenant")
	}
	if _, ok := FromContext(ContextWithTenant(context.Background(), "  ")); ok {
		t.Fatalf("expected blank tenant to be ignored")
	}
}

func TestFiltersFollowContext(t *testing.T) {
	ctx := ContextWithTenant(context.Background(), "acme")

	docs := BaseFilter(ctx, "pages")
	if docs.Tenant == nil || *docs.Tenant != "acme" {
		t.Fatalf("expected document filter scoped to acme, got %+v", docs)
	}
	if BaseFilter(context.Background(), "pages").Tenant != nil {
		t.Fatalf("expected unscoped document filter without tenant")
	}

	redirectScope := RedirectFilter(ctx)
	if redirectScope.Tenant == nil || *redirectScope.Tenant != "acme" {
		t.Fatalf("expected redirect filter scoped to acme, got %+v", redirectScope)
	}
}
