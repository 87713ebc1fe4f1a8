// Package config loads and validates daybook configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all daybook configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Remote completion endpoint
	API APIConfig `yaml:"api"`

	// Entity store
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the remote completion endpoint.
type APIConfig struct {
	BaseURL     string  `yaml:"base_url"`
	AppSecret   string  `yaml:"app_secret"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     string  `yaml:"timeout"`

	// Stable identifiers attached to every request for server-side
	// rate limiting. DeviceID is minted on first run if empty.
	UserID   string `yaml:"user_id"`
	DeviceID string `yaml:"device_id"`

	// Unit of the X-RateLimit-Reset header: "auto" (magnitude heuristic),
	// "seconds", or "millis".
	ResetUnit string `yaml:"reset_unit"`
}

// StoreConfig configures the sqlite entity store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures categorized file logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"` // debug, info, warn, error
}

// DefaultHome returns the default daybook home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".daybook"
	}
	return filepath.Join(home, ".daybook")
}

// DefaultConfig returns the default configuration rooted at the given home
// directory.
func DefaultConfig(home string) *Config {
	return &Config{
		Name:    "daybook",
		Version: "0.3.0",

		API: APIConfig{
			BaseURL:     "https://api.daybook.app/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   1024,
			Timeout:     "60s",
			ResetUnit:   "auto",
		},

		Store: StoreConfig{
			DatabasePath: filepath.Join(home, "daybook.db"),
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if secret := os.Getenv("DAYBOOK_APP_SECRET"); secret != "" {
		c.API.AppSecret = secret
	}
	if url := os.Getenv("DAYBOOK_BASE_URL"); url != "" {
		c.API.BaseURL = url
	}
	if model := os.Getenv("DAYBOOK_MODEL"); model != "" {
		c.API.Model = model
	}
	if path := os.Getenv("DAYBOOK_DB"); path != "" {
		c.Store.DatabasePath = path
	}
}

// APITimeout returns the API timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.MaxTokens <= 0 {
		return fmt.Errorf("api.max_tokens must be positive")
	}
	if c.API.Temperature < 0 || c.API.Temperature > 2 {
		return fmt.Errorf("api.temperature must be in [0, 2]")
	}
	switch c.API.ResetUnit {
	case "", "auto", "seconds", "millis":
	default:
		return fmt.Errorf("api.reset_unit must be auto, seconds, or millis")
	}
	return nil
}
