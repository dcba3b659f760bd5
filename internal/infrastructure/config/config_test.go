package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "claude", cfg.Agent.Executable)
	assert.Equal(t, "bash", cfg.Agent.Shell)
	assert.Equal(t, 30*time.Second, cfg.Registry.CleanupInterval)
	assert.Equal(t, 10*time.Second, cfg.Adoption.ScanInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Metrics.Addr)

	// Paths are filled in even when unset.
	assert.NotEmpty(t, cfg.Registry.Path)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("TERMDECK_AGENT", "my-agent")
	t.Setenv("TERMDECK_CLEANUP_INTERVAL", "5s")
	t.Setenv("TERMDECK_REGISTRY_PATH", "/tmp/custom/registry.json")
	t.Setenv("TERMDECK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-agent", cfg.Agent.Executable)
	assert.Equal(t, 5*time.Second, cfg.Registry.CleanupInterval)
	assert.Equal(t, "/tmp/custom/registry.json", cfg.Registry.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
