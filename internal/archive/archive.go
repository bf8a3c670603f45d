// Package archive extracts tar.gz bundles produced by profiling tools.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Suffix is the only archive format the profiling tools emit.
const Suffix = ".tar.gz"

// ExtractError reports a failed extraction. Callers treat it as recoverable:
// the artifact is skipped and processing continues.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("EXTRACT_FAILED: %s (%v)", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// IsArchive reports whether a filename names a tar.gz bundle.
func IsArchive(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Suffix)
}

// ExtractTarGz unpacks a tar.gz file into destDir, creating it if needed.
// Entries that would escape destDir are rejected.
func ExtractTarGz(archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return &ExtractError{Path: archivePath, Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return &ExtractError{Path: archivePath, Err: err}
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &ExtractError{Path: archivePath, Err: err}
		}

		target, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return &ExtractError{Path: archivePath, Err: err}
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return &ExtractError{Path: archivePath, Err: err}
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return &ExtractError{Path: archivePath, Err: err}
			}
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return &ExtractError{Path: archivePath, Err: err}
			}
		default:
			// Symlinks, devices and the like never appear in profiler
			// bundles; ignore them rather than fail the whole archive.
		}
	}
}

func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.Clean(name))
	if target != destDir && !strings.HasPrefix(target, destDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes extraction directory", name)
	}
	return target, nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
