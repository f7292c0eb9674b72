// Package config loads and validates engine configuration (spec §6
// SearchEngineConfig) from YAML, mirroring the teacher's Load/Save/
// expandPath pattern for its own server config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corvidlabs/lexidex/internal/models"
)

// StorageType selects the StorageAdapter backing an engine (spec §4.7/§6).
type StorageType string

const (
	StorageMemory StorageType = "memory"
	StorageSQLite StorageType = "sqlite"
	StorageRedis  StorageType = "redis"
)

// StorageConfig selects and configures the StorageAdapter.
type StorageConfig struct {
	Type    StorageType       `yaml:"type"`
	Options map[string]string `yaml:"options,omitempty"`
}

// VersioningConfig controls document version history.
type VersioningConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxVersions int `yaml:"max_versions"`
}

// DocumentSupportConfig controls whether the engine keeps version history
// for updated documents (spec §6 documentSupport).
type DocumentSupportConfig struct {
	Enabled    bool             `yaml:"enabled"`
	Versioning VersioningConfig `yaml:"versioning"`
}

// SearchConfig holds the per-call search defaults merged with explicit
// SearchOptions on every engine.Search call (spec §4.4).
type SearchConfig struct {
	DefaultOptions models.SearchOptions `yaml:"default_options"`
}

// EngineConfig is the recognized SearchEngineConfig shape from spec §6.
type EngineConfig struct {
	Name             string                `yaml:"name"`
	Version          int                   `yaml:"version"`
	Fields           []string              `yaml:"fields"`
	Search           SearchConfig          `yaml:"search"`
	Storage          StorageConfig         `yaml:"storage"`
	DocumentSupport  DocumentSupportConfig `yaml:"document_support"`
}

// Validate rejects a configuration missing the fields spec §6 requires.
func (c *EngineConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", models.ErrConfig)
	}
	if c.Version <= 0 {
		return fmt.Errorf("%w: version must be positive", models.ErrConfig)
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("%w: fields must name at least one field", models.ErrConfig)
	}
	return nil
}

// Option configures an EngineConfig built programmatically via New.
type Option func(*EngineConfig)

// WithVersion sets the schema version of the serialized index.
func WithVersion(v int) Option {
	return func(c *EngineConfig) { c.Version = v }
}

// WithFields sets the field keys the engine indexes.
func WithFields(fields ...string) Option {
	return func(c *EngineConfig) { c.Fields = fields }
}

// WithDefaultSearchOptions sets the options merged into every search call.
func WithDefaultSearchOptions(opts models.SearchOptions) Option {
	return func(c *EngineConfig) { c.Search.DefaultOptions = opts }
}

// WithStorage selects the StorageAdapter type and its options.
func WithStorage(t StorageType, options map[string]string) Option {
	return func(c *EngineConfig) { c.Storage = StorageConfig{Type: t, Options: options} }
}

// WithVersioning turns on document version history with maxVersions kept.
func WithVersioning(maxVersions int) Option {
	return func(c *EngineConfig) {
		c.DocumentSupport = DocumentSupportConfig{
			Enabled: true,
			Versioning: VersioningConfig{Enabled: true, MaxVersions: maxVersions},
		}
	}
}

// New builds an EngineConfig programmatically for embedders who never
// touch YAML, applying the same defaults Load would.
func New(name string, opts ...Option) (*EngineConfig, error) {
	cfg := &EngineConfig{Name: name}
	for _, opt := range opts {
		opt(cfg)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the config file at path, expands relative storage
// paths, and applies defaults before validating.
func Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config: %v", models.ErrConfig, err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	if p, ok := cfg.Storage.Options["path"]; ok && p != "" {
		cfg.Storage.Options["path"] = expandPath(p, configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *EngineConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

// expandPath converts path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory, matching the teacher's convention for watch directories.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
