// Package layout allocates and addresses the canonical output tree.
package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/topology"
)

// Canonical category directory names, fixed and case-sensitive.
const (
	PlatformProfilerDir = "PlatformProfiler"
	WorkloadProfilerDir = "WorkloadProfiler"
	ResultsDir          = "Results"
)

// IDGenerator produces the name of a new output root. Injected so tests can
// pin exact paths; production wiring uses UUIDGenerator.
type IDGenerator func() string

// UUIDGenerator returns a random UUID v4 string.
func UUIDGenerator() string {
	return uuid.NewString()
}

// BuildError reports a failed output-tree allocation.
type BuildError struct {
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("OUTPUT_TREE_FAILED: %s (%v)", e.Path, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Tree addresses one canonical output root.
type Tree struct {
	ID   string // Generated root identifier
	Root string // <targetDir>/<ID>
}

// Build allocates a fresh output root under targetDir and eagerly creates
// the PlatformProfiler/WorkloadProfiler/Results skeleton for every SUT, so
// the directories exist even when a mapper finds nothing to place in them.
// The generated identifier must not already exist under targetDir; an
// invocation never shares an output root with anything else.
func Build(targetDir string, gen IDGenerator, suts []topology.SUT) (*Tree, error) {
	if gen == nil {
		gen = UUIDGenerator
	}

	id := gen()
	root := filepath.Join(targetDir, id)
	if _, err := os.Stat(root); err == nil {
		return nil, &BuildError{
			Path: root,
			Err:  fmt.Errorf("output root %q already exists", id),
		}
	} else if !os.IsNotExist(err) {
		return nil, &BuildError{Path: root, Err: err}
	}

	tree := &Tree{ID: id, Root: root}
	for _, sut := range suts {
		for _, category := range []string{PlatformProfilerDir, WorkloadProfilerDir, ResultsDir} {
			dir := filepath.Join(tree.SUTDir(sut.CanonicalID), category)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, &BuildError{Path: dir, Err: err}
			}
		}
	}
	return tree, nil
}

// SUTDir returns the root directory of one canonical SUT.
func (t *Tree) SUTDir(canonicalID string) string {
	return filepath.Join(t.Root, canonicalID)
}

// PlatformDir returns a SUT's PlatformProfiler directory.
func (t *Tree) PlatformDir(canonicalID string) string {
	return filepath.Join(t.SUTDir(canonicalID), PlatformProfilerDir)
}

// WorkloadDir returns a SUT's WorkloadProfiler directory.
func (t *Tree) WorkloadDir(canonicalID string) string {
	return filepath.Join(t.SUTDir(canonicalID), WorkloadProfilerDir)
}

// ResultsDir returns a SUT's Results directory.
func (t *Tree) ResultsDir(canonicalID string) string {
	return filepath.Join(t.SUTDir(canonicalID), ResultsDir)
}

// Run formats a 1-based run directory name.
func Run(n int) string {
	return fmt.Sprintf("run%d", n)
}

// Iteration formats a 1-based iteration directory name.
func Iteration(n int) string {
	return fmt.Sprintf("iteration%d", n)
}

// Instance formats a 1-based instance directory name.
func Instance(n int) string {
	return fmt.Sprintf("instance%d", n)
}
