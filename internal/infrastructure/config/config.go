package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/termdeck/termdeck/internal/shared/paths"
)

// Config holds all application configuration.
type Config struct {
	Agent    AgentConfig
	Registry RegistryConfig
	Adoption AdoptionConfig
	Metrics  MetricsConfig
	Logging  LogConfig
}

// AgentConfig holds settings for the embedded agent CLI.
type AgentConfig struct {
	// Executable is the agent binary spawned into sessions.
	Executable string `envconfig:"TERMDECK_AGENT" default:"claude"`
	// Shell wraps resume spawns so the working directory can be entered
	// before the agent starts.
	Shell string `envconfig:"TERMDECK_SHELL" default:"bash"`
}

// RegistryConfig holds process-registry configuration.
type RegistryConfig struct {
	// Path of the persisted registry document. Empty means the default
	// cache location.
	Path string `envconfig:"TERMDECK_REGISTRY_PATH"`
	// CleanupInterval is how often dead processes are swept.
	CleanupInterval time.Duration `envconfig:"TERMDECK_CLEANUP_INTERVAL" default:"30s"`
}

// AdoptionConfig holds orphan-detection configuration.
type AdoptionConfig struct {
	// StateDir is the external session-state directory. Empty means the
	// agent's default location.
	StateDir string `envconfig:"TERMDECK_STATE_DIR"`
	// ScanInterval is the periodic rescan fallback used alongside the
	// filesystem watcher.
	ScanInterval time.Duration `envconfig:"TERMDECK_SCAN_INTERVAL" default:"10s"`
}

// MetricsConfig holds the optional Prometheus exporter configuration.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the
	// exporter.
	Addr string `envconfig:"TERMDECK_METRICS_ADDR" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"TERMDECK_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"TERMDECK_LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	cfg := &Config{
		Agent: AgentConfig{
			Executable: "claude",
			Shell:      "bash",
		},
		Registry: RegistryConfig{
			CleanupInterval: 30 * time.Second,
		},
		Adoption: AdoptionConfig{
			ScanInterval: 10 * time.Second,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Registry.Path == "" {
		c.Registry.Path = paths.RegistryPath()
	}
	if c.Adoption.StateDir == "" {
		c.Adoption.StateDir = paths.SessionStateDir()
	}
}
