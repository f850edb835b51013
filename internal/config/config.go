// Package config holds the runtime configuration for the aggregation
// pipeline, loadable from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"metahealth/internal/registry"
)

// Config is the full pipeline configuration. Every field has a usable
// default; a config file and CLI flags override selectively.
type Config struct {
	// InputDir is the directory walked for .jsonl.gz data files.
	InputDir string `yaml:"input_dir" json:"input_dir"`
	// OutputDir receives the attribute and stats JSON files.
	OutputDir string `yaml:"output_dir" json:"output_dir"`
	// CachePath is the SQLite registry snapshot store. Empty disables
	// the cache.
	CachePath string `yaml:"cache_path" json:"cache_path"`
	// APIBaseURL is the registry API root.
	APIBaseURL string `yaml:"api_base_url" json:"api_base_url"`
	// Workers is the number of concurrent file processors.
	Workers int `yaml:"workers" json:"workers"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`
}

// Default returns a Config with all fields set to their defaults.
func Default() Config {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	return Config{
		InputDir:   "data",
		OutputDir:  "out",
		CachePath:  "cache/registry.db",
		APIBaseURL: registry.DefaultBaseURL,
		Workers:    workers,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// LoadFromPath reads a config file (YAML or JSON) layered over the
// defaults. Format is detected by extension (.yaml/.yml, .json) or by
// content.
func LoadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses config from bytes over the defaults. ext is the file
// extension for a format hint; empty detects from content.
func Load(data []byte, ext string) (Config, error) {
	cfg := Default()

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	switch ext {
	case ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config json: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values that would break the pipeline at runtime.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	return nil
}
