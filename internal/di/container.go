package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/internal/logging/console"
	"github.com/goliatone/go-pagetree/internal/logging/gologger"
	"github.com/goliatone/go-pagetree/internal/redirects"
	"github.com/goliatone/go-pagetree/internal/runtimeconfig"
	"github.com/goliatone/go-pagetree/internal/tenancy"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	"github.com/goliatone/go-pagetree/pkg/storage"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the page tree components from a validated configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	baseFilter     hierarchy.BaseFilter
	redirectFilter redirects.ValidationFilter

	documentRepo hierarchy.Repository
	redirectRepo redirects.Repository

	registry          *hierarchy.Registry
	resolver          *hierarchy.Resolver
	materializer      *hierarchy.Materializer
	guard             *hierarchy.Guard
	normalizer        *hierarchy.ChangeNormalizer
	redirectValidator *redirects.Validator
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies the database used by the bun repositories. The caller
// keeps ownership; the schema must already exist.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithDocumentRepository overrides the document store.
func WithDocumentRepository(repo hierarchy.Repository) Option {
	return func(c *Container) {
		c.documentRepo = repo
	}
}

// WithRedirectRepository overrides the redirect store.
func WithRedirectRepository(repo redirects.Repository) Option {
	return func(c *Container) {
		c.redirectRepo = repo
	}
}

// WithBaseFilter scopes every internal document query. Defaults to the
// tenant carried by the context.
func WithBaseFilter(filter hierarchy.BaseFilter) Option {
	return func(c *Container) {
		c.baseFilter = filter
	}
}

// WithRedirectValidationFilter scopes redirect loop checks. Defaults to the
// tenant carried by the context.
func WithRedirectValidationFilter(filter redirects.ValidationFilter) Option {
	return func(c *Container) {
		c.redirectFilter = filter
	}
}

// NewContainer validates cfg and wires every component.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:         cfg,
		cacheTTL:       time.Duration(cfg.Cache.DefaultTTL),
		baseFilter:     tenancy.BaseFilter,
		redirectFilter: tenancy.RedirectFilter,
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = time.Minute
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureHierarchy(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureRedirects()
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "":
		return nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || c.documentRepo != nil {
		return nil
	}
	if strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) != "bun" {
		return nil
	}
	db, err := storage.Open(storage.Config{
		Driver: c.Config.Storage.Driver,
		DSN:    c.Config.Storage.DSN,
	})
	if err != nil {
		return err
	}
	if err := storage.EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.documentRepo == nil {
		if c.bunDB != nil {
			c.documentRepo = hierarchy.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.documentRepo = hierarchy.NewMemoryRepository()
		}
	}
	if c.redirectRepo == nil {
		if c.bunDB != nil {
			c.redirectRepo = redirects.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.redirectRepo = redirects.NewMemoryRepository()
		}
	}
}

func (c *Container) configureHierarchy() error {
	collections := make([]hierarchy.Collection, 0, len(c.Config.Collections))
	for _, col := range c.Config.Collections {
		collections = append(collections, CollectionFromConfig(col))
	}
	registry, err := hierarchy.NewRegistry(collections...)
	if err != nil {
		return fmt.Errorf("pagetree: %w", err)
	}
	c.registry = registry

	c.resolver = hierarchy.NewResolver(c.documentRepo, registry,
		hierarchy.WithLocales(c.Config.Locales...),
		hierarchy.WithMaxDepth(c.Config.MaxBreadcrumbDepth),
		hierarchy.WithBaseFilter(c.baseFilter),
	)
	c.materializer = hierarchy.NewMaterializer(c.resolver, registry,
		hierarchy.WithMaterializerLogger(logging.HierarchyLogger(c.loggerProvider)),
		hierarchy.WithReadConcurrency(c.Config.ReadConcurrency),
	)
	c.guard = hierarchy.NewGuard(c.documentRepo, registry,
		hierarchy.WithGuardEnabled(c.Config.PreventParentDeletion),
		hierarchy.WithGuardBaseFilter(c.baseFilter),
		hierarchy.WithGuardLogger(logging.GuardLogger(c.loggerProvider)),
	)
	c.normalizer = hierarchy.NewChangeNormalizer(c.documentRepo, registry, c.resolver)
	return nil
}

func (c *Container) configureRedirects() {
	if !c.Config.Redirects.Enabled {
		return
	}
	c.redirectValidator = redirects.NewValidator(c.redirectRepo,
		redirects.WithValidationFilter(c.redirectFilter),
		redirects.WithLogger(logging.RedirectsLogger(c.loggerProvider)),
	)
}

// CollectionFromConfig maps a configured collection onto the hierarchy model.
func CollectionFromConfig(col runtimeconfig.CollectionConfig) hierarchy.Collection {
	out := hierarchy.Collection{
		Slug:                 strings.TrimSpace(col.Slug),
		ParentCollection:     strings.TrimSpace(col.ParentCollection),
		ParentFieldName:      strings.TrimSpace(col.ParentFieldName),
		IsRootCollection:     col.IsRootCollection,
		BreadcrumbLabelField: strings.TrimSpace(col.BreadcrumbLabelField),
		SharedParentDocument: col.SharedParentDocument,
		UniqueSlug:           col.SlugField.IsUnique(),
		SlugSourceField:      strings.TrimSpace(col.SlugField.SourceField),
	}
	if len(col.SlugField.StaticValue) > 0 {
		out.StaticSlug = hierarchy.Localized(col.SlugField.StaticValue).Clone()
	}
	return out
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	c.ownsDB = false
	return c.bunDB.Close()
}

// LoggerProvider returns the configured provider, possibly nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// BunDB returns the database backing the bun repositories, if any.
func (c *Container) BunDB() *bun.DB { return c.bunDB }

// Registry returns the collection registry.
func (c *Container) Registry() *hierarchy.Registry { return c.registry }

// DocumentRepository returns the document store.
func (c *Container) DocumentRepository() hierarchy.Repository { return c.documentRepo }

// RedirectRepository returns the redirect store.
func (c *Container) RedirectRepository() redirects.Repository { return c.redirectRepo }

// Resolver returns the breadcrumb resolver.
func (c *Container) Resolver() *hierarchy.Resolver { return c.resolver }

// Materializer returns the virtual field materializer.
func (c *Container) Materializer() *hierarchy.Materializer { return c.materializer }

// Guard returns the parent deletion guard.
func (c *Container) Guard() *hierarchy.Guard { return c.guard }

// ChangeNormalizer returns the before-change hook implementation.
func (c *Container) ChangeNormalizer() *hierarchy.ChangeNormalizer { return c.normalizer }

// RedirectValidator returns the redirect validator, nil when redirects are
// disabled.
func (c *Container) RedirectValidator() *redirects.Validator { return c.redirectValidator }

// RedirectFilter returns the scope redirect checks and listings run in.
func (c *Container) RedirectFilter() redirects.ValidationFilter { return c.redirectFilter }
