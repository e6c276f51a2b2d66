package runtimeconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var collectionSlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

var ErrCollectionInvalid = errors.New("pagetree config: collection is invalid")
var ErrCollectionDuplicate = errors.New("pagetree config: collection slug is duplicated")
var ErrParentCollectionRequired = errors.New("pagetree config: non-root collections need a parent collection")
var ErrParentCollectionUnknown = errors.New("pagetree config: parent collection is not configured")
var ErrDefaultLocaleUnknown = errors.New("pagetree config: default locale must be one of the configured locales")
var ErrLocaleInvalid = errors.New("pagetree config: locale codes must be non-empty and unique")
var ErrMaxDepthInvalid = errors.New("pagetree config: max breadcrumb depth must be positive")
var ErrReadConcurrencyInvalid = errors.New("pagetree config: read concurrency must be zero or positive")
var ErrStorageProviderUnknown = errors.New("pagetree config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("pagetree config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("pagetree config: storage dsn is required for bun storage")
var ErrRedirectsCollectionRequired = errors.New("pagetree config: redirects collection is required when redirects are enabled")
var ErrLoggingProviderUnknown = errors.New("pagetree config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("pagetree config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("pagetree config: logging format is invalid")

// Config aggregates the page tree settings. Callbacks (base filters, logger
// providers) are passed as options to the module instead.
type Config struct {
	Locales               []string           `json:"locales,omitempty"`
	DefaultLocale         string             `json:"default_locale,omitempty"`
	PreventParentDeletion bool               `json:"prevent_parent_deletion"`
	MaxBreadcrumbDepth    int                `json:"max_breadcrumb_depth"`
	ReadConcurrency       int                `json:"read_concurrency"`
	Collections           []CollectionConfig `json:"collections"`
	Redirects             RedirectsConfig    `json:"redirects"`
	Storage               StorageConfig      `json:"storage"`
	Cache                 CacheConfig        `json:"cache"`
	Logging               LoggingConfig      `json:"logging"`
	Commands              CommandsConfig     `json:"commands"`
}

// CollectionConfig opts one collection into the page tree.
type CollectionConfig struct {
	Slug                 string     `json:"slug"`
	ParentCollection     string     `json:"parent_collection,omitempty"`
	ParentFieldName      string     `json:"parent_field_name,omitempty"`
	IsRootCollection     bool       `json:"is_root_collection,omitempty"`
	BreadcrumbLabelField string     `json:"breadcrumb_label_field,omitempty"`
	SharedParentDocument bool       `json:"shared_parent_document,omitempty"`
	SlugField            SlugConfig `json:"slug_field"`
}

// SlugConfig shapes the slug field of a collection.
type SlugConfig struct {
	// Unique defaults to true when unset.
	Unique      *bool             `json:"unique,omitempty"`
	StaticValue map[string]string `json:"static_value,omitempty"`
	SourceField string            `json:"source_field,omitempty"`
}

// IsUnique reports whether slugs must be unique, defaulting to true.
func (s SlugConfig) IsUnique() bool {
	return s.Unique == nil || *s.Unique
}

// RedirectsConfig toggles the redirects collection.
type RedirectsConfig struct {
	Enabled    bool   `json:"enabled"`
	Collection string `json:"collection,omitempty"`
}

// StorageConfig selects the document and redirect stores.
type StorageConfig struct {
	Provider string `json:"provider"`
	Driver   string `json:"driver,omitempty"`
	DSN      string `json:"dsn,omitempty"`
}

// CacheConfig captures repository cache behaviour for bun storage.
type CacheConfig struct {
	Enabled    bool     `json:"enabled"`
	DefaultTTL Duration `json:"default_ttl,omitempty"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `json:"provider"`
	Level     string   `json:"level,omitempty"`
	Format    string   `json:"format,omitempty"`
	AddSource bool     `json:"add_source,omitempty"`
	Focus     []string `json:"focus,omitempty"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Timeout Duration `json:"timeout,omitempty"`
}

// Duration is a time.Duration written as a Go duration string in JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// DefaultConfig returns an unlocalized, memory-backed configuration with the
// deletion guard and redirects enabled.
func DefaultConfig() Config {
	return Config{
		PreventParentDeletion: true,
		MaxBreadcrumbDepth:    32,
		ReadConcurrency:       1,
		Redirects: RedirectsConfig{
			Enabled:    true,
			Collection: "redirects",
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			DefaultTTL: Duration(time.Minute),
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Localized reports whether locales are configured.
func (cfg Config) Localized() bool {
	return len(cfg.Locales) > 0
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if err := cfg.validateLocales(); err != nil {
		return err
	}
	if cfg.MaxBreadcrumbDepth <= 0 {
		return ErrMaxDepthInvalid
	}
	if cfg.ReadConcurrency < 0 {
		return ErrReadConcurrencyInvalid
	}
	if err := cfg.validateCollections(); err != nil {
		return err
	}
	if cfg.Redirects.Enabled && strings.TrimSpace(cfg.Redirects.Collection) == "" {
		return ErrRedirectsCollectionRequired
	}
	if err := cfg.validateStorage(); err != nil {
		return err
	}
	return cfg.validateLogging()
}

func (cfg Config) validateLocales() error {
	seen := make(map[string]struct{}, len(cfg.Locales))
	for _, locale := range cfg.Locales {
		code := strings.TrimSpace(locale)
		if code == "" || code == "all" {
			return fmt.Errorf("%w: %q", ErrLocaleInvalid, locale)
		}
		if _, dup := seen[code]; dup {
			return fmt.Errorf("%w: %q", ErrLocaleInvalid, locale)
		}
		seen[code] = struct{}{}
	}
	if cfg.Localized() && cfg.DefaultLocale != "" && !slices.Contains(cfg.Locales, cfg.DefaultLocale) {
		return fmt.Errorf("%w: %s", ErrDefaultLocaleUnknown, cfg.DefaultLocale)
	}
	return nil
}

// Validate checks the fields of one collection on their own.
func (c CollectionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Slug, validation.Required, validation.Match(collectionSlugPattern)),
		validation.Field(&c.ParentCollection, validation.Match(collectionSlugPattern)),
		validation.Field(&c.ParentFieldName, validation.Length(0, 64)),
		validation.Field(&c.BreadcrumbLabelField, validation.Length(0, 64)),
	)
}

func (cfg Config) validateCollections() error {
	slugs := make(map[string]struct{}, len(cfg.Collections))
	for i, col := range cfg.Collections {
		if err := col.Validate(); err != nil {
			return fmt.Errorf("%w: collections[%d]: %w", ErrCollectionInvalid, i, err)
		}
		if _, dup := slugs[col.Slug]; dup {
			return fmt.Errorf("%w: %s", ErrCollectionDuplicate, col.Slug)
		}
		slugs[col.Slug] = struct{}{}
	}
	for _, col := range cfg.Collections {
		if col.ParentCollection == "" {
			if !col.IsRootCollection {
				return fmt.Errorf("%w: %s", ErrParentCollectionRequired, col.Slug)
			}
			continue
		}
		if _, ok := slugs[col.ParentCollection]; !ok {
			return fmt.Errorf("%w: %s -> %s", ErrParentCollectionUnknown, col.Slug, col.ParentCollection)
		}
	}
	return nil
}

func (cfg Config) validateStorage() error {
	switch normalize(cfg.Storage.Provider) {
	case "", "memory":
		return nil
	case "bun":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	switch normalize(cfg.Storage.Driver) {
	case "sqlite", "sqlite3", "postgres":
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	return nil
}

func (cfg Config) validateLogging() error {
	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return nil
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
