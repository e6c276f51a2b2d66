package pagetree

import (
	"io"

	"github.com/goliatone/go-pagetree/internal/runtimeconfig"
)

var (
	ErrCollectionInvalid           = runtimeconfig.ErrCollectionInvalid
	ErrCollectionDuplicate         = runtimeconfig.ErrCollectionDuplicate
	ErrParentCollectionRequired    = runtimeconfig.ErrParentCollectionRequired
	ErrParentCollectionUnknown     = runtimeconfig.ErrParentCollectionUnknown
	ErrDefaultLocaleUnknown        = runtimeconfig.ErrDefaultLocaleUnknown
	ErrLocaleInvalid               = runtimeconfig.ErrLocaleInvalid
	ErrMaxDepthInvalid             = runtimeconfig.ErrMaxDepthInvalid
	ErrReadConcurrencyInvalid      = runtimeconfig.ErrReadConcurrencyInvalid
	ErrStorageProviderUnknown      = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown        = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired          = runtimeconfig.ErrStorageDSNRequired
	ErrRedirectsCollectionRequired = runtimeconfig.ErrRedirectsCollectionRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigDecode                = runtimeconfig.ErrConfigDecode
)

type (
	Config           = runtimeconfig.Config
	CollectionConfig = runtimeconfig.CollectionConfig
	SlugConfig       = runtimeconfig.SlugConfig
	RedirectsConfig  = runtimeconfig.RedirectsConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	CommandsConfig   = runtimeconfig.CommandsConfig
	Duration         = runtimeconfig.Duration
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig decodes a JSON configuration document, checks it against the
// embedded schema and overlays it on DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	return runtimeconfig.Load(r)
}

// ConfigSchema returns the JSON Schema used by LoadConfig.
func ConfigSchema() []byte {
	return runtimeconfig.Schema()
}
