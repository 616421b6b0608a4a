package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUserConfig(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, ".binderconfig.yaml"), []byte(content), 0644)
	require.NoError(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Run("no .binderconfig.yaml returns defaults", func(t *testing.T) {
		dir := t.TempDir()
		s, err := Init(dir, "")
		require.NoError(t, err)

		cfg, err := s.LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, DefaultAPIURL, cfg.APIURL)
		assert.Equal(t, "", cfg.APIKey)
		assert.Equal(t, DefaultPageSize, cfg.PageSize)
		assert.Equal(t, DefaultRequestsPerSecond, cfg.RequestsPerSecond)
		assert.Equal(t, DefaultTimeout, cfg.Timeout)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	})

	t.Run("full .binderconfig.yaml loads all values", func(t *testing.T) {
		dir := t.TempDir()
		writeUserConfig(t, dir, `api_url: http://localhost:8080/v2
api_key: secret
page_size: 50
requests_per_second: 2.5
timeout: 5s
log_level: debug
`)

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8080/v2", cfg.APIURL)
		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, 50, cfg.PageSize)
		assert.Equal(t, 2.5, cfg.RequestsPerSecond)
		assert.Equal(t, "debug", cfg.LogLevel)

		d, err := cfg.TimeoutDuration()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, d)
	})

	t.Run("partial .binderconfig.yaml merges with defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeUserConfig(t, dir, "page_size: 10\n")

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.PageSize)
		assert.Equal(t, DefaultAPIURL, cfg.APIURL)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		dir := t.TempDir()
		writeUserConfig(t, dir, "page_size: [\n")

		_, err := LoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"page size too small", "page_size: 0\n", "page_size"},
		{"page size too large", "page_size: 251\n", "page_size"},
		{"empty api url", "api_url: \"  \"\n", "api_url"},
		{"zero rate", "requests_per_second: 0\n", "requests_per_second"},
		{"bad timeout", "timeout: soon\n", "timeout"},
		{"negative timeout", "timeout: -1s\n", "timeout"},
		{"unknown log level", "log_level: loud\n", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeUserConfig(t, dir, tt.content)

			_, err := LoadConfig(dir)
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".binderconfig.yaml"), s.ConfigPath())
}
