// Package validate guards strings before they reach privileged operations.
//
// Every working directory, additional directory, and preset name crosses
// this package before it is interpolated into an argument vector or used
// to resolve a filesystem location. All checks are pure: no I/O, no
// partial sanitization - a value either passes unchanged or is rejected.
package validate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Sentinel errors for the two rejection classes. Callers match with
// errors.Is; the wrapped message carries the offending value.
var (
	ErrPathTraversal = fmt.Errorf("path traversal not allowed")
	ErrInvalidName   = fmt.Errorf("invalid preset name")
)

// presetNamePattern allows alphanumeric, hyphens, underscores.
// Anything outside this set (whitespace, `;`, `$`, `@`, quotes) is
// rejected before the name can reach a shell-interpreted context.
var presetNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Path rejects any path whose normalized form contains a parent-directory
// segment anywhere, not only a leading one. Well-formed absolute and
// relative paths without such a segment pass through untouched.
func Path(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrPathTraversal)
	}

	// Segment-wise check on the raw path: cleaning first would collapse
	// interior traversals like /a/b/../../etc and let them through.
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == ".." {
			return fmt.Errorf("%w: %s", ErrPathTraversal, path)
		}
	}

	return nil
}

// PresetName accepts only non-empty names composed of letters, digits,
// dash, and underscore.
func PresetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}

	if !presetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %s (only alphanumeric, hyphens, and underscores allowed)", ErrInvalidName, name)
	}

	return nil
}
