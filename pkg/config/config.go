package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for igfetch
type Config struct {
	// Instagram session credentials (optional, public posts work anonymously)
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Media staging settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	SessionID string `yaml:"session_id" json:"session_id"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries int           `yaml:"max_retries" json:"max_retries"`
}

// OutputConfig holds staging directory configuration
type OutputConfig struct {
	// StagingDirectory is the parent for the per-invocation scratch directory.
	// Empty means the OS temp directory.
	StagingDirectory string `yaml:"staging_directory" json:"staging_directory"`
	// KeepStagedFiles disables scratch directory removal after the fetch.
	KeepStagedFiles bool `yaml:"keep_staged_files" json:"keep_staged_files"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Download: DownloadConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Output: OutputConfig{
			StagingDirectory: "",
			KeepStagedFiles:  false,
		},
		Logging: LoggingConfig{
			// The result envelope owns stdout, so logs default to errors only.
			Level: "error",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("IGFETCH_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken := os.Getenv("IGFETCH_CSRF_TOKEN"); csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if userAgent := os.Getenv("IGFETCH_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if rpm := os.Getenv("IGFETCH_REQUESTS_PER_MINUTE"); rpm != "" {
		if val, err := strconv.Atoi(rpm); err == nil && val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if timeout := os.Getenv("IGFETCH_DOWNLOAD_TIMEOUT"); timeout != "" {
		if val, err := strconv.Atoi(timeout); err == nil && val > 0 {
			c.Download.Timeout = time.Duration(val) * time.Second
		}
	}

	if stagingDir := os.Getenv("IGFETCH_STAGING_DIR"); stagingDir != "" {
		c.Output.StagingDirectory = stagingDir
	}

	if keep := os.Getenv("IGFETCH_KEEP_STAGED_FILES"); keep != "" {
		c.Output.KeepStagedFiles = strings.ToLower(keep) == "true"
	}

	if logLevel := os.Getenv("IGFETCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".igfetch.yaml",
		".igfetch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igfetch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igfetch", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igfetch.yaml"),
		filepath.Join(os.Getenv("HOME"), ".igfetch.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if timeout, ok := flags["timeout"].(int); ok && timeout > 0 {
		c.Download.Timeout = time.Duration(timeout) * time.Second
	}
	if keep, ok := flags["keep-files"].(bool); ok {
		c.Output.KeepStagedFiles = keep
	}
	if stagingDir, ok := flags["staging-dir"].(string); ok && stagingDir != "" {
		c.Output.StagingDirectory = stagingDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igfetch.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
