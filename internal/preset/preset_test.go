package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termdeck/termdeck/internal/shared/validate"
)

const samplePresets = `
[[preset]]
name = "alpha"
shortcut = "a"
cwd = "/tmp/alpha"
add_dirs = ["/tmp/shared"]
instances = 2
extra_args = ["--verbose"]

[[preset]]
name = "beta-project"
cwd = "/tmp/beta"
`

func loadSample(t *testing.T, content string) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	m, err := LoadFrom(path)
	require.NoError(t, err)
	return m
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "presets.toml")

	m, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Empty(t, m.All())

	// The starter file exists and is commented-out examples only.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[preset]]")
}

func TestLoadParsesPresets(t *testing.T) {
	m := loadSample(t, samplePresets)

	all := m.All()
	require.Len(t, all, 2)

	alpha, ok := m.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "/tmp/alpha", alpha.Cwd)
	assert.Equal(t, []string{"/tmp/shared"}, alpha.AddDirs)
	assert.Equal(t, 2, alpha.Instances)
	assert.Equal(t, []string{"--verbose"}, alpha.ExtraArgs)

	// Instances defaults to 1.
	beta, ok := m.Get("beta-project")
	require.True(t, ok)
	assert.Equal(t, 1, beta.Instances)
}

func TestLoadRejectsUnsafePresetName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[preset]]\nname = \"bad name; rm\"\ncwd = \"/tmp\"\n"), 0o644))

	_, err := LoadFrom(path)
	assert.ErrorIs(t, err, validate.ErrInvalidName)
}

func TestFindByShortcutAndPrefix(t *testing.T) {
	m := loadSample(t, samplePresets)

	p, ok := m.Find("a")
	require.True(t, ok)
	assert.Equal(t, "alpha", p.Name)

	p, ok = m.Find("beta")
	require.True(t, ok)
	assert.Equal(t, "beta-project", p.Name)

	_, ok = m.Find("nope")
	assert.False(t, ok)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[preset]\nname="), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}
