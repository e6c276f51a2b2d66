package pagetree

import (
	"context"

	"github.com/goliatone/go-pagetree/internal/di"
	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/internal/redirects"
	"github.com/goliatone/go-pagetree/internal/tenancy"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// AllLocales requests virtual fields for every configured locale.
const AllLocales = hierarchy.AllLocales

type (
	Document         = hierarchy.Document
	Localized        = hierarchy.Localized
	Breadcrumb       = hierarchy.Breadcrumb
	AlternatePath    = hierarchy.AlternatePath
	VirtualFields    = hierarchy.VirtualFields
	Selection        = hierarchy.Selection
	ReadOptions      = hierarchy.ReadOptions
	Filter           = hierarchy.Filter
	BaseFilter       = hierarchy.BaseFilter
	DependentCount   = hierarchy.DependentCount
	DocumentStore    = hierarchy.Repository
	Redirect         = redirects.Redirect
	RedirectType     = redirects.Type
	RedirectFilter   = redirects.Filter
	RedirectStore    = redirects.Repository
	ValidationFilter = redirects.ValidationFilter
)

const (
	RedirectPermanent = redirects.TypePermanent
	RedirectTemporary = redirects.TypeTemporary
)

// ContextWithTenant scopes every operation run with the returned context to
// tenant.
func ContextWithTenant(ctx context.Context, tenant string) context.Context {
	return tenancy.ContextWithTenant(ctx, tenant)
}

// TenantFromContext returns the tenant carried by ctx.
func TenantFromContext(ctx context.Context) (string, bool) {
	return tenancy.FromContext(ctx)
}

// Option customises the module wiring.
type Option = di.Option

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithBunDB backs both stores with an existing database. The caller keeps
// ownership of db.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

// WithCache puts a read-through cache in front of the bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return di.WithCache(service, serializer)
}

// WithDocumentStore replaces the document store.
func WithDocumentStore(store DocumentStore) Option {
	return di.WithDocumentRepository(store)
}

// WithRedirectStore replaces the redirect store.
func WithRedirectStore(store RedirectStore) Option {
	return di.WithRedirectRepository(store)
}

// WithBaseFilter sets the scope applied to every internal document query.
// The default scopes by the tenant carried in the context.
func WithBaseFilter(filter BaseFilter) Option {
	return di.WithBaseFilter(filter)
}

// WithRedirectValidationFilter sets the scope redirect checks run in.
func WithRedirectValidationFilter(filter ValidationFilter) Option {
	return di.WithRedirectValidationFilter(filter)
}

// Module is the pagetree runtime façade.
type Module struct {
	container *di.Container
	logger    interfaces.Logger
}

// New constructs a module using the provided configuration and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		container: container,
		logger:    logging.ModuleLogger(container.LoggerProvider(), "pagetree"),
	}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration the module runs with.
func (m *Module) Config() Config {
	return m.container.Config
}

// Documents returns the document store.
func (m *Module) Documents() DocumentStore {
	return m.container.DocumentRepository()
}

// Redirects returns the redirect store.
func (m *Module) Redirects() RedirectStore {
	return m.container.RedirectRepository()
}

// RedirectsEnabled reports whether the redirects collection is active.
func (m *Module) RedirectsEnabled() bool {
	return m.container.Config.Redirects.Enabled
}

// Close releases resources the module opened itself.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	return m.container.Close()
}
