// Package config holds engine configuration: typed fields, a Default()
// constructor, and yaml struct tags for file-based overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"constraintcore/internal/types"
)

// Config enumerates the engine construction parameters.
type Config struct {
	CacheCapacity           int              `yaml:"cache_capacity"`
	ConfidenceFloor         float64          `yaml:"confidence_floor"`
	EnableExternalSemantic  bool             `yaml:"enable_external_semantic"`
	EnableExternalResolver  bool             `yaml:"enable_external_resolver"`
	PatternLibraryOverrides string           `yaml:"pattern_library_overrides,omitempty"`
	SupportedLanguages      []types.Language `yaml:"supported_languages"`

	// SemanticServiceURL / ResolverServiceURL are read from the
	// SEMANTIC_SERVICE_URL / RESOLVER_SERVICE_URL env vars when
	// the respective feature is enabled and the field is not already set.
	SemanticServiceURL string `yaml:"semantic_service_url,omitempty"`
	ResolverServiceURL string `yaml:"resolver_service_url,omitempty"`

	// SemanticServiceTimeoutSeconds / ResolverServiceTimeoutSeconds default
	// to 30.
	SemanticServiceTimeoutSeconds int `yaml:"semantic_service_timeout_seconds,omitempty"`
	ResolverServiceTimeoutSeconds int `yaml:"resolver_service_timeout_seconds,omitempty"`

	Debug bool `yaml:"debug,omitempty"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		CacheCapacity:                 1024,
		ConfidenceFloor:               0.3,
		EnableExternalSemantic:        false,
		EnableExternalResolver:        false,
		SupportedLanguages:            types.AllLanguages,
		SemanticServiceTimeoutSeconds: 30,
		ResolverServiceTimeoutSeconds: 30,
	}
}

// Load reads a YAML config file, applying Default() for anything the file
// omits, then reads the optional SEMANTIC_SERVICE_URL and
// RESOLVER_SERVICE_URL env vars when their respective features are enabled
// and no URL was set explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if c.EnableExternalSemantic && c.SemanticServiceURL == "" {
		if v := os.Getenv("SEMANTIC_SERVICE_URL"); v != "" {
			c.SemanticServiceURL = v
		}
	}
	if c.EnableExternalResolver && c.ResolverServiceURL == "" {
		if v := os.Getenv("RESOLVER_SERVICE_URL"); v != "" {
			c.ResolverServiceURL = v
		}
	}
}

// Validate checks capacity is positive, the confidence floor is in range,
// and every configured language is a known tag.
func (c *Config) Validate() error {
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("cache_capacity must be positive, got %d", c.CacheCapacity)
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return fmt.Errorf("confidence_floor must be in [0,1], got %f", c.ConfidenceFloor)
	}
	if len(c.SupportedLanguages) == 0 {
		c.SupportedLanguages = types.AllLanguages
	}
	for _, l := range c.SupportedLanguages {
		if !l.Valid() {
			return fmt.Errorf("unsupported language in config: %q", l)
		}
	}
	return nil
}
