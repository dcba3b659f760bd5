// Package preset loads named launch profiles from the user's config
// directory. A preset captures everything needed to spawn one or more
// agent instances for a project: working directory, extra directories,
// instance count, and extra CLI arguments.
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/termdeck/termdeck/internal/shared/paths"
	"github.com/termdeck/termdeck/internal/shared/validate"
)

// Preset is one launch profile.
type Preset struct {
	// Name is the unique preset name; must pass validate.PresetName.
	Name string `toml:"name"`
	// Shortcut is an optional short alias (e.g. "td").
	Shortcut string `toml:"shortcut,omitempty"`
	// Cwd is the working directory; supports ~ expansion.
	Cwd string `toml:"cwd"`
	// AddDirs are additional directories the agent may access.
	AddDirs []string `toml:"add_dirs,omitempty"`
	// Instances is how many agent instances to spawn. Defaults to 1.
	Instances int `toml:"instances,omitempty"`
	// ExtraArgs are appended to the agent's argument vector.
	ExtraArgs []string `toml:"extra_args,omitempty"`
}

type config struct {
	Preset []Preset `toml:"preset"`
}

// Manager loads and queries presets.
type Manager struct {
	presets []Preset
	path    string
}

const defaultConfig = `# termdeck presets
# Define project presets for quick agent spawning.
#
# [[preset]]
# name = "myproject"
# shortcut = "mp"
# cwd = "~/dev/myproject"
# add_dirs = ["../shared-lib"]
# instances = 2
# extra_args = ["--dangerously-skip-permissions"]
`

// Load reads presets from the default config path, creating a commented
// starter file on first run.
func Load() (*Manager, error) {
	return LoadFrom(paths.PresetsPath())
}

// LoadFrom reads presets from an explicit path.
func LoadFrom(path string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write default presets: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}

	var cfg config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	presets := cfg.Preset
	for i := range presets {
		if err := validate.PresetName(presets[i].Name); err != nil {
			return nil, err
		}
		presets[i].Cwd = paths.ExpandTilde(presets[i].Cwd)
		for j, dir := range presets[i].AddDirs {
			presets[i].AddDirs[j] = paths.ExpandTilde(dir)
		}
		if presets[i].Instances <= 0 {
			presets[i].Instances = 1
		}
	}

	return &Manager{presets: presets, path: path}, nil
}

// All returns every loaded preset.
func (m *Manager) All() []Preset {
	out := make([]Preset, len(m.presets))
	copy(out, m.presets)
	return out
}

// Get looks a preset up by exact name.
func (m *Manager) Get(name string) (Preset, bool) {
	for _, p := range m.presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Find resolves a preset by name, shortcut, or unique name prefix, in
// that order.
func (m *Manager) Find(query string) (Preset, bool) {
	if p, ok := m.Get(query); ok {
		return p, true
	}
	for _, p := range m.presets {
		if p.Shortcut != "" && p.Shortcut == query {
			return p, true
		}
	}

	var matches []Preset
	for _, p := range m.presets {
		if strings.HasPrefix(p.Name, query) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	return Preset{}, false
}

// Path returns the config file location backing this manager.
func (m *Manager) Path() string {
	return m.path
}
