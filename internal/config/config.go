// Package config loads filefind configuration from YAML with defaults and
// CLI-flag overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/filefind/internal/search"
)

// HistoryConfig configures the search-history store.
type HistoryConfig struct {
	// Enabled turns history recording on or off.
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database.
	DBPath string `yaml:"db_path"`

	// Keep is the maximum number of searches to retain (0 = unlimited).
	Keep int `yaml:"keep"`
}

// Config holds the filefind tunables.
type Config struct {
	// Producers is the number of concurrent directory-expansion workers.
	Producers int `yaml:"producers"`

	// FileQueueCapacity bounds the producer/consumer file queue.
	FileQueueCapacity int `yaml:"file_queue_capacity"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Roots are the default root directories to search. Empty means the
	// host defaults (drive letters on Windows, "/" elsewhere).
	Roots []string `yaml:"roots"`

	// SkipPaths are absolute prefixes excluded from traversal.
	SkipPaths []string `yaml:"skip_paths"`

	// History configures search-history recording.
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Producers:         search.DefaultProducers,
		FileQueueCapacity: search.DefaultFileQueueCapacity,
		LogLevel:          "info",
		SkipPaths:         search.DefaultSkipPaths,
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(".filefind", "history.db"),
			Keep:    1000,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge non-zero values over the defaults.
	if fileCfg.Producers != 0 {
		cfg.Producers = fileCfg.Producers
	}

	if fileCfg.FileQueueCapacity != 0 {
		cfg.FileQueueCapacity = fileCfg.FileQueueCapacity
	}

	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}

	if fileCfg.Roots != nil {
		cfg.Roots = fileCfg.Roots
	}

	if fileCfg.SkipPaths != nil {
		cfg.SkipPaths = fileCfg.SkipPaths
	}

	// The history section needs presence detection: "enabled: false" must
	// not be mistaken for an absent section.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, exists := rawMap["history"]; exists && section != nil {
			sectionMap, _ := section.(map[string]interface{})

			if _, exists := sectionMap["enabled"]; exists {
				cfg.History.Enabled = fileCfg.History.Enabled
			}

			if _, exists := sectionMap["db_path"]; exists {
				cfg.History.DBPath = fileCfg.History.DBPath
			}

			if _, exists := sectionMap["keep"]; exists {
				cfg.History.Keep = fileCfg.History.Keep
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .filefind/config.yaml in the
// specified directory. A missing directory or file yields the defaults.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".filefind", "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(producers *int, queueCapacity *int, logLevel *string, roots *[]string, skipPaths *[]string) {
	if producers != nil {
		c.Producers = *producers
	}

	if queueCapacity != nil {
		c.FileQueueCapacity = *queueCapacity
	}

	if logLevel != nil {
		c.LogLevel = *logLevel
	}

	if roots != nil {
		c.Roots = *roots
	}

	if skipPaths != nil {
		c.SkipPaths = *skipPaths
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Producers <= 0 {
		return fmt.Errorf("producers must be > 0, got %d", c.Producers)
	}

	if c.FileQueueCapacity <= 0 {
		return fmt.Errorf("file_queue_capacity must be > 0, got %d", c.FileQueueCapacity)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	if c.History.Keep < 0 {
		return fmt.Errorf("history.keep must be >= 0, got %d", c.History.Keep)
	}

	return nil
}
