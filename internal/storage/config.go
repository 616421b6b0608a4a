package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .binder/).
	userConfigFile = ".binderconfig.yaml"

	// Default configuration values
	DefaultAPIURL            = "https://api.pokemontcg.io/v2"
	DefaultPageSize          = 20
	DefaultRequestsPerSecond = 5.0
	DefaultTimeout           = "30s"
	DefaultLogLevel          = "warn"

	// Page size bounds accepted by the catalog API.
	MinPageSize = 1
	MaxPageSize = 250
)

// Config represents user configuration from .binderconfig.yaml.
// This file is user-managed and never written by binder.
type Config struct {
	// APIURL is the base URL of the card catalog API.
	APIURL string `yaml:"api_url"`

	// APIKey is sent as X-Api-Key when set. Anonymous access is rate limited harder.
	APIKey string `yaml:"api_key"`

	// PageSize is the number of cards requested per search page (1-250).
	PageSize int `yaml:"page_size"`

	// RequestsPerSecond caps outgoing catalog requests.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Timeout bounds a single catalog request, e.g. "30s".
	Timeout string `yaml:"timeout"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s in %s: %s", e.Field, userConfigFile, e.Message)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		APIURL:            DefaultAPIURL,
		PageSize:          DefaultPageSize,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Timeout:           DefaultTimeout,
		LogLevel:          DefaultLogLevel,
	}
}

// LoadConfig loads .binderconfig.yaml from dir if it exists, otherwise
// returns defaults. Partial config files are merged with defaults.
func LoadConfig(dir string) (*Config, error) {
	configPath := filepath.Join(dir, userConfigFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", userConfigFile, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", userConfigFile, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads the user config that sits next to this .binder/ directory.
func (s *Storage) LoadConfig() (*Config, error) {
	return LoadConfig(s.root)
}

// ConfigPath returns the path to the user config file.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.root, userConfigFile)
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return &ConfigError{Field: "api_url", Message: "must not be empty"}
	}
	if c.PageSize < MinPageSize || c.PageSize > MaxPageSize {
		return &ConfigError{Field: "page_size", Message: fmt.Sprintf("%d is not between %d and %d", c.PageSize, MinPageSize, MaxPageSize)}
	}
	if c.RequestsPerSecond <= 0 {
		return &ConfigError{Field: "requests_per_second", Message: "must be positive"}
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return &ConfigError{Field: "timeout", Message: err.Error()}
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return &ConfigError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}

// TimeoutDuration parses Timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}
