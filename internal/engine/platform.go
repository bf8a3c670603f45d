package engine

import (
	"path/filepath"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/fscopy"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/layout"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/manifest"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/scanner"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/topology"
)

// mapPlatform copies platform-profiling artifacts for one SUT. The platform
// profile is shared hardware data, so the same source is replicated for
// every SUT. Candidates are tried in configured order and all that exist
// are applied to the same destination; a later candidate may overwrite
// files from an earlier one.
func (e *Engine) mapPlatform(sut topology.SUT) error {
	destDir := e.tree.PlatformDir(sut.CanonicalID)

	for _, candidate := range e.opts.PlatformSources {
		srcDir := filepath.Join(e.opts.SourceDir, candidate)
		if !scanner.Exists(srcDir) {
			continue
		}

		subdirs, err := scanner.Dirs(srcDir)
		if err != nil {
			return err
		}

		// Subdirectory-run layout takes precedence over flat files
		// whenever any subdirectory is present.
		if len(subdirs) > 0 {
			for idx, sub := range subdirs {
				runDir := filepath.Join(destDir, layout.Run(idx+1))
				files, err := scanner.Files(sub.FullPath)
				if err != nil {
					return err
				}
				for _, f := range files {
					if err := fscopy.FileInto(f.FullPath, runDir); err != nil {
						return err
					}
					if err := e.record(manifest.Record{
						SUT:         sut.CanonicalID,
						Category:    manifest.CategoryPlatform,
						Run:         idx + 1,
						Source:      f.FullPath,
						Destination: filepath.Join(runDir, f.Name),
					}); err != nil {
						return err
					}
				}
			}
			continue
		}

		files, err := scanner.Files(srcDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := fscopy.FileInto(f.FullPath, destDir); err != nil {
				return err
			}
			if err := e.record(manifest.Record{
				SUT:         sut.CanonicalID,
				Category:    manifest.CategoryPlatform,
				Source:      f.FullPath,
				Destination: filepath.Join(destDir, f.Name),
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

// mapPlatformSingle handles platform artifacts in the single-system
// convention: flat files are copied into PlatformProfiler and any
// subdirectories are copied through recursively as-is, without run
// numbering.
func (e *Engine) mapPlatformSingle(sut topology.SUT) error {
	destDir := e.tree.PlatformDir(sut.CanonicalID)

	for _, candidate := range e.opts.PlatformSources {
		srcDir := filepath.Join(e.opts.SourceDir, candidate)
		if !scanner.Exists(srcDir) {
			continue
		}

		entries, err := scanner.List(srcDir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.IsDir {
				dest := filepath.Join(destDir, entry.Name)
				if err := fscopy.TreeInto(entry.FullPath, dest); err != nil {
					return err
				}
				if err := e.record(manifest.Record{
					SUT:         sut.CanonicalID,
					Category:    manifest.CategoryPlatform,
					Source:      entry.FullPath,
					Destination: dest,
				}); err != nil {
					return err
				}
				continue
			}
			if err := fscopy.FileInto(entry.FullPath, destDir); err != nil {
				return err
			}
			if err := e.record(manifest.Record{
				SUT:         sut.CanonicalID,
				Category:    manifest.CategoryPlatform,
				Source:      entry.FullPath,
				Destination: filepath.Join(destDir, entry.Name),
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
