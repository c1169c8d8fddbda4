// Package utils holds small path helpers shared across packages.
package utils

import (
	"path/filepath"
	"strings"
)

// IsPathWithin returns true if path lies inside root (or is root itself),
// after resolving symlinks on both sides where possible.
func IsPathWithin(path, root string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	absPath, err := filepath.Abs(resolved)
	if err != nil {
		return false
	}
	rResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		rResolved = root
	}
	absRoot, err := filepath.Abs(rResolved)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
