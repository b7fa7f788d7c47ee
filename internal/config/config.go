// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all researchdesk configuration.
type Config struct {
	Backend   Backend   `yaml:"backend"`
	Providers Providers `yaml:"providers"`
	Export    Export    `yaml:"export"`
}

// Backend holds connection settings for the research service.
type Backend struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Providers holds the default provider selections seeded into module forms.
type Providers struct {
	Model      string `yaml:"model"`       // "gemini" | "openai" | "grok"
	Search     string `yaml:"search"`      // "duckduckgo" | "serper"
	SearchMode string `yaml:"search_mode"` // "standard" | "extended"
}

// Export holds result export settings.
type Export struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: Backend{
			BaseURL: "http://localhost:8000",
			Timeout: 5 * time.Minute,
		},
		Providers: Providers{
			Model:      "gemini",
			Search:     "duckduckgo",
			SearchMode: "standard",
		},
		Export: Export{
			Dir: ".",
		},
	}
}

// DefaultPaths returns the config file locations in increasing priority:
// the user config, then the per-project file in the working directory.
func DefaultPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "researchdesk", "config.yaml"))
	}
	paths = append(paths, filepath.Join(".researchdesk", "config.yaml"))
	return paths
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("config: backend.base_url cannot be empty")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("config: backend.timeout must be positive, got %v", c.Backend.Timeout)
	}
	switch c.Providers.Model {
	case "", "gemini", "openai", "grok":
		// valid
	default:
		return fmt.Errorf("config: providers.model must be \"gemini\", \"openai\" or \"grok\", got %q", c.Providers.Model)
	}
	switch c.Providers.Search {
	case "", "duckduckgo", "serper":
		// valid
	default:
		return fmt.Errorf("config: providers.search must be \"duckduckgo\" or \"serper\", got %q", c.Providers.Search)
	}
	switch c.Providers.SearchMode {
	case "", "standard", "extended":
		// valid
	default:
		return fmt.Errorf("config: providers.search_mode must be \"standard\" or \"extended\", got %q", c.Providers.SearchMode)
	}
	if c.Export.Dir == "" {
		return errors.New("config: export.dir cannot be empty")
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: RESEARCHDESK_BACKEND_URL, RESEARCHDESK_TIMEOUT,
// RESEARCHDESK_MODEL_PROVIDER, RESEARCHDESK_SEARCH_PROVIDER,
// RESEARCHDESK_EXPORT_DIR.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("RESEARCHDESK_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("RESEARCHDESK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid RESEARCHDESK_TIMEOUT %q: %w", v, err)
		}
		c.Backend.Timeout = d
	}
	if v := os.Getenv("RESEARCHDESK_MODEL_PROVIDER"); v != "" {
		c.Providers.Model = v
	}
	if v := os.Getenv("RESEARCHDESK_SEARCH_PROVIDER"); v != "" {
		c.Providers.Search = v
	}
	if v := os.Getenv("RESEARCHDESK_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Backend   *rawBackend   `yaml:"backend"`
	Providers *rawProviders `yaml:"providers"`
	Export    *rawExport    `yaml:"export"`
}

type rawBackend struct {
	BaseURL *string        `yaml:"base_url"`
	Timeout *time.Duration `yaml:"timeout"`
}

type rawProviders struct {
	Model      *string `yaml:"model"`
	Search     *string `yaml:"search"`
	SearchMode *string `yaml:"search_mode"`
}

type rawExport struct {
	Dir *string `yaml:"dir"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Backend != nil {
		if layer.Backend.BaseURL != nil {
			c.Backend.BaseURL = *layer.Backend.BaseURL
		}
		if layer.Backend.Timeout != nil {
			c.Backend.Timeout = *layer.Backend.Timeout
		}
	}
	if layer.Providers != nil {
		if layer.Providers.Model != nil {
			c.Providers.Model = *layer.Providers.Model
		}
		if layer.Providers.Search != nil {
			c.Providers.Search = *layer.Providers.Search
		}
		if layer.Providers.SearchMode != nil {
			c.Providers.SearchMode = *layer.Providers.SearchMode
		}
	}
	if layer.Export != nil {
		if layer.Export.Dir != nil {
			c.Export.Dir = *layer.Export.Dir
		}
	}
}
