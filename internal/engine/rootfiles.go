package engine

import (
	"path/filepath"
	"strings"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/fscopy"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/layout"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/manifest"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/scanner"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/topology"
)

// broadcastRootFiles copies every regular file at the source root into the
// root of every SUT's canonical directory. This is a deliberate broadcast:
// loose root files (configs, notes, shared metadata) belong to all SUTs.
// It runs after the mappers, so a root file named like a mapped artifact
// wins the collision.
func (e *Engine) broadcastRootFiles(suts []topology.SUT) error {
	files, err := scanner.Files(e.opts.SourceDir)
	if err != nil {
		return err
	}

	for _, f := range files {
		for _, sut := range suts {
			sutDir := e.tree.SUTDir(sut.CanonicalID)
			if err := fscopy.FileInto(f.FullPath, sutDir); err != nil {
				return err
			}
			if err := e.record(manifest.Record{
				SUT:         sut.CanonicalID,
				Category:    manifest.CategoryRoot,
				Source:      f.FullPath,
				Destination: filepath.Join(sutDir, f.Name),
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

// routeRootFilesSingle routes single-system root files: the manual-result
// file goes to the SUT root, every other .json or .txt file goes into
// Results/run1/iteration1/instance1 regardless of how many runs the Logs
// folder produced. Routing everything to run1 mirrors the established
// single-system behavior even when multiple runs exist.
func (e *Engine) routeRootFilesSingle(sut topology.SUT) error {
	files, err := scanner.Files(e.opts.SourceDir)
	if err != nil {
		return err
	}

	manualLower := strings.ToLower(e.opts.ManualResultFile)
	instanceDir := filepath.Join(e.tree.ResultsDir(sut.CanonicalID),
		layout.Run(1), layout.Iteration(1), layout.Instance(1))

	for _, f := range files {
		lower := strings.ToLower(f.Name)

		if lower == manualLower {
			sutDir := e.tree.SUTDir(sut.CanonicalID)
			if err := fscopy.FileInto(f.FullPath, sutDir); err != nil {
				return err
			}
			if err := e.record(manifest.Record{
				SUT:         sut.CanonicalID,
				Category:    manifest.CategoryRoot,
				Source:      f.FullPath,
				Destination: filepath.Join(sutDir, f.Name),
			}); err != nil {
				return err
			}
			continue
		}

		if !strings.HasSuffix(lower, ".json") && !strings.HasSuffix(lower, ".txt") {
			continue
		}

		if err := fscopy.FileInto(f.FullPath, instanceDir); err != nil {
			return err
		}
		if err := e.record(manifest.Record{
			SUT:         sut.CanonicalID,
			Category:    manifest.CategoryRoot,
			Run:         1,
			Iteration:   layout.Iteration(1),
			Instance:    1,
			Source:      f.FullPath,
			Destination: filepath.Join(instanceDir, f.Name),
		}); err != nil {
			return err
		}
	}

	return nil
}
