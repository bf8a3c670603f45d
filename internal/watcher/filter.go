package watcher

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns returns the default patterns for in-flight upload
// artifacts that must not be restructured.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.partial",
		"*.download",
		"*.crdownload",
		".~*",
	}
}

// FileFilter filters drop-directory arrivals by ignore patterns.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a FileFilter with the given glob patterns, falling
// back to the defaults when none are given.
func NewFileFilter(patterns []string) *FileFilter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &FileFilter{patterns: patterns}
}

// ShouldIgnore checks the base name of path against every pattern.
// Extension-only patterns like ".tmp" also match as a suffix.
func (f *FileFilter) ShouldIgnore(path string) bool {
	filename := filepath.Base(path)

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, filename); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.Contains(pattern, "*") {
			if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}

// GetPatterns returns a copy of the current ignore patterns.
func (f *FileFilter) GetPatterns() []string {
	result := make([]string, len(f.patterns))
	copy(result, f.patterns)
	return result
}

// IsArchiveName reports whether path names a tar.gz bundle.
func IsArchiveName(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".tar.gz")
}
