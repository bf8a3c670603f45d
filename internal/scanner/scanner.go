// Package scanner handles directory enumeration for the restructuring engine.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// NotADirectory indicates the path exists but is not a directory.
	NotADirectory ScanErrorType = "NOT_A_DIRECTORY"
)

// ScanError represents an error that occurred during directory enumeration.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Entry represents one immediate child of a scanned directory.
type Entry struct {
	Name     string // Entry name only
	FullPath string // Absolute path
	IsDir    bool
}

// List enumerates the immediate children of a directory, sorted by name.
// Every downstream "first match" and run-index assignment relies on this
// ordering being lexicographic, so enumeration never recurses and never
// depends on filesystem order.
func List(directory string) ([]Entry, error) {
	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScanError{Type: DirectoryNotFound, Path: directory, Err: err}
		}
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, &ScanError{
			Type: NotADirectory,
			Path: directory,
			Err:  errors.New("path is not a directory"),
		}
	}

	dirEntries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		fullPath := filepath.Join(directory, de.Name())
		absPath, err := filepath.Abs(fullPath)
		if err != nil {
			absPath = fullPath
		}

		// Resolve the target type for symlinked entries; skip broken links.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			Name:     de.Name(),
			FullPath: absPath,
			IsDir:    info.IsDir(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// Files returns the regular-file children of a directory, sorted by name.
func Files(directory string) ([]Entry, error) {
	return filtered(directory, false)
}

// Dirs returns the subdirectory children of a directory, sorted by name.
func Dirs(directory string) ([]Entry, error) {
	return filtered(directory, true)
}

func filtered(directory string, wantDir bool) ([]Entry, error) {
	entries, err := List(directory)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir == wantDir {
			out = append(out, e)
		}
	}
	return out, nil
}

// Exists reports whether the path exists and is a directory.
func Exists(directory string) bool {
	info, err := os.Stat(directory)
	return err == nil && info.IsDir()
}
