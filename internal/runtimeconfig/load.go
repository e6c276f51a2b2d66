package runtimeconfig

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/goliatone/go-pagetree/internal/validation"
)

var ErrConfigDecode = errors.New("pagetree config: decode failed")

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *validation.Schema
)

func configSchema() *validation.Schema {
	schemaOnce.Do(func() {
		schema = validation.MustCompile("pagetree-config.json", schemaJSON)
	})
	return schema
}

// Schema returns the embedded JSON schema for configuration files.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// Load reads a JSON configuration document, checks it against the embedded
// schema and overlays it on DefaultConfig before running Validate.
func Load(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigDecode, err)
	}
	if err := configSchema().ValidateJSON(data); err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigDecode, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
