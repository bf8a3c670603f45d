// Package fscopy performs the file and tree copies that materialize the
// canonical output layout. Sources are never modified or removed.
package fscopy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyErrorType represents the type of copy error.
type CopyErrorType string

const (
	// SourceNotFound indicates the source file does not exist.
	SourceNotFound CopyErrorType = "SOURCE_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied CopyErrorType = "PERMISSION_DENIED"
	// WriteFailed indicates the destination could not be created or written.
	WriteFailed CopyErrorType = "WRITE_FAILED"
)

// CopyError represents a failed copy. Copy errors are fatal to an
// invocation; the engine reports them and aborts rather than continuing
// with a partially materialized tree.
type CopyError struct {
	Type CopyErrorType
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// FileInto copies src into destDir under its own basename, creating destDir
// if needed. An existing destination file is overwritten.
func FileInto(src, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return classify(destDir, err)
	}
	return copyFile(src, filepath.Join(destDir, filepath.Base(src)))
}

// TreeInto recursively copies the contents of srcDir into destDir, merging
// with whatever is already there. Same-named files are overwritten, not
// diffed.
func TreeInto(srcDir, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return classify(destDir, err)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return classify(srcDir, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(srcDir, entry.Name())
		if entry.IsDir() {
			if err := TreeInto(srcPath, filepath.Join(destDir, entry.Name())); err != nil {
				return err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if err := copyFile(srcPath, filepath.Join(destDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// FlattenInto walks srcDir recursively and copies every regular file found
// directly into destDir, discarding the source directory structure. Name
// collisions resolve last-writer-wins in walk order.
func FlattenInto(srcDir, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return classify(destDir, err)
	}

	return filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return classify(path, err)
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, filepath.Join(destDir, d.Name()))
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return classify(src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return classify(src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return classify(dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &CopyError{Type: WriteFailed, Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &CopyError{Type: WriteFailed, Path: dst, Err: err}
	}
	return nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return &CopyError{Type: SourceNotFound, Path: path, Err: err}
	case os.IsPermission(err):
		return &CopyError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return &CopyError{Type: WriteFailed, Path: path, Err: err}
	}
}
