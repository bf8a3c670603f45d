package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/archive"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/fscopy"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/layout"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/manifest"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/nameparse"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/scanner"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/topology"
)

// findWorkloadFolder locates the workload-profiler folder paired with a SUT:
// the first top-level directory, in lexicographic order, whose lowercased
// name starts with "wp-" and ends with the SUT's numeric key.
func (e *Engine) findWorkloadFolder(sut topology.SUT) (*scanner.Entry, error) {
	dirs, err := scanner.Dirs(e.opts.SourceDir)
	if err != nil {
		return nil, err
	}
	for i := range dirs {
		lower := strings.ToLower(dirs[i].Name)
		if strings.HasPrefix(lower, "wp-") && strings.HasSuffix(lower, sut.NumericKey) {
			return &dirs[i], nil
		}
	}
	return nil, nil
}

// mapWorkload maps workload-profiler artifacts for one SUT in the
// multi-system convention. Matched JSON files take sequential run indices
// in sorted order; when the folder carries iteration subdirectories, each
// file is replicated into every iteration under its run slot.
func (e *Engine) mapWorkload(sut topology.SUT) error {
	wp, err := e.findWorkloadFolder(sut)
	if err != nil {
		return err
	}
	if wp == nil {
		return nil
	}

	files, err := scanner.Files(wp.FullPath)
	if err != nil {
		return err
	}
	var jsonFiles []scanner.Entry
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f.Name), ".json") {
			jsonFiles = append(jsonFiles, f)
		}
	}

	subdirs, err := scanner.Dirs(wp.FullPath)
	if err != nil {
		return err
	}
	var iterations []string
	for _, d := range subdirs {
		if nameparse.IsIterationName(d.Name) {
			iterations = append(iterations, d.Name)
		}
	}
	if len(iterations) == 0 {
		iterations = []string{layout.Iteration(1)}
	}

	destRoot := e.tree.WorkloadDir(sut.CanonicalID)
	for idx, f := range jsonFiles {
		for _, iter := range iterations {
			iterDir := filepath.Join(destRoot, layout.Run(idx+1), iter)
			if err := fscopy.FileInto(f.FullPath, iterDir); err != nil {
				return err
			}
			if err := e.record(manifest.Record{
				SUT:         sut.CanonicalID,
				Category:    manifest.CategoryWorkload,
				Run:         idx + 1,
				Iteration:   iter,
				Source:      f.FullPath,
				Destination: filepath.Join(iterDir, f.Name),
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

// mapWorkloadSingle dispatches on the configured replication policy for
// single-system trees.
func (e *Engine) mapWorkloadSingle(sut topology.SUT) error {
	srcDir := filepath.Join(e.opts.SourceDir, workloadFolder)
	if !scanner.Exists(srcDir) {
		return nil
	}

	if e.opts.Policy == PolicyPerArtifact {
		return e.replicatePerArtifact(sut, srcDir)
	}
	return e.replicateShared(sut, srcDir)
}

// replicateShared locates the single workload artifact (first .json or
// .tar.gz in sorted order) and replicates its content into iteration1 of
// every run slot derived from the Logs folder's subdirectory count.
func (e *Engine) replicateShared(sut topology.SUT, srcDir string) error {
	runs, err := e.logsRunCount()
	if err != nil {
		return err
	}

	files, err := scanner.Files(srcDir)
	if err != nil {
		return err
	}
	var artifact *scanner.Entry
	for i := range files {
		lower := strings.ToLower(files[i].Name)
		if strings.HasSuffix(lower, ".json") || archive.IsArchive(lower) {
			artifact = &files[i]
			break
		}
	}
	if artifact == nil {
		return nil
	}

	// An archived artifact is extracted once into a throwaway directory
	// in the system temp dir; the source tree stays untouched.
	var extracted string
	if archive.IsArchive(artifact.Name) {
		tmp, err := os.MkdirTemp("", "restructure-wp-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)

		if err := archive.ExtractTarGz(artifact.FullPath, tmp); err != nil {
			e.warn(Warning{
				Code:   WarnArchiveExtract,
				SUT:    sut.CanonicalID,
				Path:   artifact.FullPath,
				Detail: err.Error(),
			})
			return nil
		}
		extracted = tmp
	}

	destRoot := e.tree.WorkloadDir(sut.CanonicalID)
	for run := 1; run <= runs; run++ {
		iterDir := filepath.Join(destRoot, layout.Run(run), layout.Iteration(1))
		if extracted != "" {
			if err := fscopy.FlattenInto(extracted, iterDir); err != nil {
				return err
			}
		} else {
			if err := fscopy.FileInto(artifact.FullPath, iterDir); err != nil {
				return err
			}
		}
		if err := e.record(manifest.Record{
			SUT:         sut.CanonicalID,
			Category:    manifest.CategoryWorkload,
			Run:         run,
			Iteration:   layout.Iteration(1),
			Source:      artifact.FullPath,
			Destination: iterDir,
		}); err != nil {
			return err
		}
	}

	return nil
}

// replicatePerArtifact assigns each workload item its own sequential run,
// independent of the Logs-derived run count. Archives are extracted and
// flattened into their run's iteration1; a failed extraction still consumes
// its run index, leaving the slot empty.
func (e *Engine) replicatePerArtifact(sut topology.SUT, srcDir string) error {
	files, err := scanner.Files(srcDir)
	if err != nil {
		return err
	}

	destRoot := e.tree.WorkloadDir(sut.CanonicalID)
	run := 0
	for _, f := range files {
		run++
		iterDir := filepath.Join(destRoot, layout.Run(run), layout.Iteration(1))

		if archive.IsArchive(f.Name) {
			tmp, err := os.MkdirTemp("", "restructure-wp-")
			if err != nil {
				return err
			}
			if err := archive.ExtractTarGz(f.FullPath, tmp); err != nil {
				os.RemoveAll(tmp)
				e.warn(Warning{
					Code:   WarnArchiveExtract,
					SUT:    sut.CanonicalID,
					Path:   f.FullPath,
					Detail: err.Error(),
				})
				continue
			}
			err = fscopy.FlattenInto(tmp, iterDir)
			os.RemoveAll(tmp)
			if err != nil {
				return err
			}
		} else {
			if err := fscopy.FileInto(f.FullPath, iterDir); err != nil {
				return err
			}
		}

		if err := e.record(manifest.Record{
			SUT:         sut.CanonicalID,
			Category:    manifest.CategoryWorkload,
			Run:         run,
			Iteration:   layout.Iteration(1),
			Source:      f.FullPath,
			Destination: iterDir,
		}); err != nil {
			return err
		}
	}

	return nil
}

// logsRunCount derives the single-system run count from the Logs folder:
// one run per top-level subdirectory, minimum 1.
func (e *Engine) logsRunCount() (int, error) {
	logsDir := filepath.Join(e.opts.SourceDir, logsFolder)
	if !scanner.Exists(logsDir) {
		return 1, nil
	}
	subdirs, err := scanner.Dirs(logsDir)
	if err != nil {
		return 0, err
	}
	if len(subdirs) == 0 {
		return 1, nil
	}
	return len(subdirs), nil
}
