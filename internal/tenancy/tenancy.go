// Package tenancy carries the current tenant through context.Context and
// turns it into store scopes.
package tenancy

import (
	"context"
	"strings"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/redirects"
)

type contextKey string

const tenantKey contextKey = "pagetree.tenant"

// ContextWithTenant returns a context carrying tenant.
func ContextWithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey, strings.TrimSpace(tenant))
}

// FromContext returns the tenant stored in ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	tenant, ok := ctx.Value(tenantKey).(string)
	if !ok || tenant == "" {
		return "", false
	}
	return tenant, true
}

// BaseFilter scopes document queries to the tenant in the context. Requests
// without a tenant are not scoped.
func BaseFilter(ctx context.Context, _ string) hierarchy.Filter {
	if tenant, ok := FromContext(ctx); ok {
		return hierarchy.TenantFilter(tenant)
	}
	return hierarchy.Filter{}
}

// RedirectFilter scopes redirect validation to the tenant in the context.
func RedirectFilter(ctx context.Context) redirects.Filter {
	if tenant, ok := FromContext(ctx); ok {
		return redirects.Filter{Tenant: &tenant}
	}
	return redirects.Filter{}
}
