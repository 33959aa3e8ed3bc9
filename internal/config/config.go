// ABOUTME: Centralized configuration for the hospital navigator
// ABOUTME: Loads from environment variables via envconfig with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// APIKeyEnv is the environment variable holding the routing model credential
const APIKeyEnv = "OPENAI_API_KEY"

// Config holds all configuration for the navigator
type Config struct {
	// Routing model settings. The API key itself is read at call time from
	// APIKeyEnv so a missing key fails the turn, not startup.
	BaseURL     string        `envconfig:"OPENAI_BASE_URL"`
	ChatModel   string        `envconfig:"NAVIGATOR_MODEL" default:"gpt-4o-mini"`
	Temperature float64       `envconfig:"NAVIGATOR_TEMPERATURE" default:"0.1"`
	Timeout     time.Duration `envconfig:"NAVIGATOR_TIMEOUT" default:"30s"`
	MaxRetries  int           `envconfig:"NAVIGATOR_MAX_RETRIES" default:"0"`
	RetryDelay  time.Duration `envconfig:"NAVIGATOR_RETRY_DELAY" default:"2s"`

	// Transcript storage
	DBPath string `envconfig:"NAVIGATOR_DB_PATH"`

	// Logging
	LogLevel string `envconfig:"NAVIGATOR_LOG_LEVEL" default:"info"`

	// Charm settings
	CharmHost   string `envconfig:"CHARM_HOST" default:"cloud.charm.sh"`
	CharmDBName string `envconfig:"CHARM_DB" default:"navigator"`
	AutoSync    bool   `envconfig:"CHARM_AUTO_SYNC" default:"true"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}

	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("NAVIGATOR_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("NAVIGATOR_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("NAVIGATOR_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("NAVIGATOR_RETRY_DELAY must not be negative, got %v", c.RetryDelay)
	}
	return nil
}

// APIKey returns the credential currently set in the environment
func (c *Config) APIKey() string {
	return os.Getenv(APIKeyEnv)
}

// DefaultDataDir returns the navigator data directory following the XDG spec
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".local/share/navigator"
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "navigator")
}

// DefaultDBPath returns the default transcript database path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "navigator.db")
}
