// Package paths provides standardized filesystem locations for termdeck.
//
// All durable state lives under the user's XDG directories; every component
// resolves files through this package so the layout stays in one place.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under cache and config roots.
const AppName = "termdeck"

// RegistryFile is the name of the persisted process registry document.
const RegistryFile = "processes.json"

// PresetsFile is the name of the preset configuration document.
const PresetsFile = "presets.toml"

// StateSuffix is the filename suffix of session-state files written by the
// agent CLI's state hooks.
const StateSuffix = ".state"

// CacheDir returns the termdeck cache directory
// (typically ~/.cache/termdeck).
func CacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, AppName)
}

// ConfigDir returns the termdeck config directory
// (typically ~/.config/termdeck).
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, AppName)
}

// RegistryPath returns the full path of the process registry document.
func RegistryPath() string {
	return filepath.Join(CacheDir(), RegistryFile)
}

// PresetsPath returns the full path of the presets document.
func PresetsPath() string {
	return filepath.Join(ConfigDir(), PresetsFile)
}

// SessionStateDir returns the directory the agent CLI writes per-session
// state files into (one <session-id>.state file per session).
func SessionStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", "session-state")
}

// ExpandTilde replaces a leading ~ with the user's home directory.
// Paths without a tilde prefix are returned unchanged.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
