package engine

import (
	"path/filepath"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/fscopy"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/layout"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/manifest"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/nameparse"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/scanner"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/topology"
)

// reconcileResults walks the per-run directories under a raw SUT folder and
// derives the canonical run/iteration/instance structure. Run directories
// are processed in sorted order; non-directory entries are skipped without
// consuming a run index. Each run directory resolves to exactly one of two
// states: it either carries iteration subdirectories or it does not.
func (e *Engine) reconcileResults(sut topology.SUT, rawSUTDir string) error {
	if !scanner.Exists(rawSUTDir) {
		return nil
	}

	runDirs, err := scanner.Dirs(rawSUTDir)
	if err != nil {
		return err
	}

	runNumber := 1
	for _, runDir := range runDirs {
		iterations, err := e.iterationDirs(runDir.FullPath)
		if err != nil {
			return err
		}

		if len(iterations) > 0 {
			for _, iter := range iterations {
				if err := e.mapIteration(sut, runNumber, iter); err != nil {
					return err
				}
			}
		} else {
			if err := e.mapRunWithoutIterations(sut, runNumber, runDir.FullPath); err != nil {
				return err
			}
		}

		runNumber++
	}

	return nil
}

func (e *Engine) iterationDirs(runDir string) ([]scanner.Entry, error) {
	subdirs, err := scanner.Dirs(runDir)
	if err != nil {
		return nil, err
	}
	var iterations []scanner.Entry
	for _, d := range subdirs {
		if nameparse.IsIterationName(d.Name) {
			iterations = append(iterations, d)
		}
	}
	return iterations, nil
}

// mapIteration handles one iteration folder of a run that has explicit
// iterations. Pre-existing subfolders (typically instance dirs) are carried
// over as-is; loose files are routed by the log-run number in their name.
func (e *Engine) mapIteration(sut topology.SUT, runNumber int, iter scanner.Entry) error {
	destIterDir := filepath.Join(e.tree.ResultsDir(sut.CanonicalID), layout.Run(runNumber), iter.Name)

	entries, err := scanner.List(iter.FullPath)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir {
			destDir := filepath.Join(destIterDir, entry.Name)
			if err := fscopy.TreeInto(entry.FullPath, destDir); err != nil {
				return err
			}
			if err := e.record(manifest.Record{
				SUT:         sut.CanonicalID,
				Category:    manifest.CategoryResults,
				Run:         runNumber,
				Iteration:   iter.Name,
				Source:      entry.FullPath,
				Destination: destDir,
			}); err != nil {
				return err
			}
			continue
		}
		if err := e.placeInstanceFile(sut, runNumber, iter.Name, destIterDir, entry); err != nil {
			return err
		}
	}

	return nil
}

// mapRunWithoutIterations handles a run directory with no iteration
// subfolders. A BenchmarkLog subdirectory, when present, substitutes for
// the run directory's own contents. Everything lands under a synthesized
// iteration1; subdirectories are skipped in this state, which is surfaced
// as a warning rather than fixed.
func (e *Engine) mapRunWithoutIterations(sut topology.SUT, runNumber int, runDir string) error {
	baseDir := runDir
	if benchLog := filepath.Join(runDir, benchmarkLogName); scanner.Exists(benchLog) {
		baseDir = benchLog
	}

	destIterDir := filepath.Join(e.tree.ResultsDir(sut.CanonicalID), layout.Run(runNumber), layout.Iteration(1))

	entries, err := scanner.List(baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir {
			e.warn(Warning{
				Code:   WarnSubdirSkipped,
				SUT:    sut.CanonicalID,
				Path:   entry.FullPath,
				Detail: "subdirectory not mapped in iteration-less run",
			})
			continue
		}
		if err := e.placeInstanceFile(sut, runNumber, layout.Iteration(1), destIterDir, entry); err != nil {
			return err
		}
	}

	return nil
}

// placeInstanceFile routes one results file into its instance slot based on
// the log-run number in its name, warning when the default was substituted.
func (e *Engine) placeInstanceFile(sut topology.SUT, runNumber int, iterName, destIterDir string, file scanner.Entry) error {
	inst := nameparse.ParseInstance(file.Name)
	if !inst.Explicit {
		e.warn(Warning{
			Code:   WarnImplicitInstance,
			SUT:    sut.CanonicalID,
			Path:   file.FullPath,
			Detail: "no instance number in filename, defaulting to instance1",
		})
	}

	destDir := filepath.Join(destIterDir, layout.Instance(inst.N))
	if err := fscopy.FileInto(file.FullPath, destDir); err != nil {
		return err
	}
	return e.record(manifest.Record{
		SUT:         sut.CanonicalID,
		Category:    manifest.CategoryResults,
		Run:         runNumber,
		Iteration:   iterName,
		Instance:    inst.N,
		Source:      file.FullPath,
		Destination: filepath.Join(destDir, file.Name),
	})
}

// reconcileLogs derives single-system results from the Logs folder. Each
// sorted subdirectory becomes one run, its full substructure preserved
// under iteration1/instance1; with no subdirectories, the folder's own
// contents land in run1.
func (e *Engine) reconcileLogs(sut topology.SUT) error {
	logsDir := filepath.Join(e.opts.SourceDir, logsFolder)
	if !scanner.Exists(logsDir) {
		return nil
	}

	subdirs, err := scanner.Dirs(logsDir)
	if err != nil {
		return err
	}

	resultsRoot := e.tree.ResultsDir(sut.CanonicalID)

	if len(subdirs) == 0 {
		destDir := filepath.Join(resultsRoot, layout.Run(1), layout.Iteration(1), layout.Instance(1))
		entries, err := scanner.List(logsDir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.IsDir {
				if err := fscopy.TreeInto(entry.FullPath, filepath.Join(destDir, entry.Name)); err != nil {
					return err
				}
			} else {
				if err := fscopy.FileInto(entry.FullPath, destDir); err != nil {
					return err
				}
			}
			if err := e.record(manifest.Record{
				SUT:         sut.CanonicalID,
				Category:    manifest.CategoryResults,
				Run:         1,
				Iteration:   layout.Iteration(1),
				Instance:    1,
				Source:      entry.FullPath,
				Destination: destDir,
			}); err != nil {
				return err
			}
		}
		return nil
	}

	for idx, sub := range subdirs {
		destDir := filepath.Join(resultsRoot, layout.Run(idx+1), layout.Iteration(1), layout.Instance(1))
		if err := fscopy.TreeInto(sub.FullPath, destDir); err != nil {
			return err
		}
		if err := e.record(manifest.Record{
			SUT:         sut.CanonicalID,
			Category:    manifest.CategoryResults,
			Run:         idx + 1,
			Iteration:   layout.Iteration(1),
			Instance:    1,
			Source:      sub.FullPath,
			Destination: destDir,
		}); err != nil {
			return err
		}
	}

	return nil
}
