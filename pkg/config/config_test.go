package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 30*time.Second, cfg.Download.Timeout)
	assert.Equal(t, 3, cfg.Download.MaxRetries)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Empty(t, cfg.Output.StagingDirectory)
	assert.False(t, cfg.Output.KeepStagedFiles)
	assert.NotEmpty(t, cfg.Instagram.UserAgent)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGFETCH_SESSION_ID", "env-session")
	t.Setenv("IGFETCH_CSRF_TOKEN", "env-csrf")
	t.Setenv("IGFETCH_REQUESTS_PER_MINUTE", "30")
	t.Setenv("IGFETCH_DOWNLOAD_TIMEOUT", "45")
	t.Setenv("IGFETCH_KEEP_STAGED_FILES", "true")
	t.Setenv("IGFETCH_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-session", cfg.Instagram.SessionID)
	assert.Equal(t, "env-csrf", cfg.Instagram.CSRFToken)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 45*time.Second, cfg.Download.Timeout)
	assert.True(t, cfg.Output.KeepStagedFiles)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("IGFETCH_REQUESTS_PER_MINUTE", "not-a-number")
	t.Setenv("IGFETCH_DOWNLOAD_TIMEOUT", "-5")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 30*time.Second, cfg.Download.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
instagram:
  session_id: file-session
rate_limit:
  requests_per_minute: 10
output:
  staging_directory: /tmp/igfetch-staging
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "file-session", cfg.Instagram.SessionID)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "/tmp/igfetch-staging", cfg.Output.StagingDirectory)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Values the file omits keep their defaults
	assert.Equal(t, 3, cfg.Download.MaxRetries)
}

func TestLoadFromFileMissingPath(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"timeout":    60,
		"keep-files": true,
		"log-level":  "debug",
	})

	assert.Equal(t, 60*time.Second, cfg.Download.Timeout)
	assert.True(t, cfg.Output.KeepStagedFiles)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, true},
		{"zero timeout", func(c *Config) { c.Download.Timeout = 0 }, true},
		{"negative retries", func(c *Config) { c.Download.MaxRetries = -1 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

	t.Setenv("IGFETCH_LOG_LEVEL", "info")

	// Flags beat environment beats file
	cfg, err := Load(path, map[string]interface{}{"log-level": "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)

	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}
