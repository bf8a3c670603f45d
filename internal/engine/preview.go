package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/scanner"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/topology"
)

// SUTPreview describes what a run would discover for one SUT.
type SUTPreview struct {
	RawName        string
	CanonicalID    string
	NumericKey     string
	WorkloadFolder string // Matched wp-* folder name, empty when none
	WorkloadRuns   int    // JSON artifacts that would take run slots
	ResultRuns     int    // Raw run directories (or Logs-derived count)
}

// PreviewResult is the outcome of analyzing a source tree without writing
// anything.
type PreviewResult struct {
	Mode topology.Mode
	SUTs []SUTPreview
}

// Preview classifies a source tree and reports what a run would do, without
// allocating an output root or copying a single file.
func Preview(opts Options) (*PreviewResult, error) {
	opts.applyDefaults()

	cls, err := topology.Classify(opts.SourceDir)
	if err != nil {
		return nil, err
	}

	e := &Engine{opts: opts, log: opts.Logger}
	result := &PreviewResult{Mode: cls.Mode}

	if cls.Mode == topology.SingleSystem {
		sut := topology.SyntheticSingleSUT()
		p := SUTPreview{
			RawName:     "(single-system)",
			CanonicalID: sut.CanonicalID,
			NumericKey:  sut.NumericKey,
		}
		runs, err := e.logsRunCount()
		if err != nil {
			return nil, err
		}
		p.ResultRuns = runs
		if wpDir := filepath.Join(opts.SourceDir, workloadFolder); scanner.Exists(wpDir) {
			p.WorkloadFolder = workloadFolder
			files, err := scanner.Files(wpDir)
			if err != nil {
				return nil, err
			}
			p.WorkloadRuns = len(files)
		}
		result.SUTs = append(result.SUTs, p)
		return result, nil
	}

	for _, sut := range cls.SUTs {
		p := SUTPreview{
			RawName:     sut.RawName,
			CanonicalID: sut.CanonicalID,
			NumericKey:  sut.NumericKey,
		}

		if wp, err := e.findWorkloadFolder(sut); err != nil {
			return nil, err
		} else if wp != nil {
			p.WorkloadFolder = wp.Name
			files, err := scanner.Files(wp.FullPath)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				if strings.HasSuffix(strings.ToLower(f.Name), ".json") {
					p.WorkloadRuns++
				}
			}
		}

		if rawDir := filepath.Join(opts.SourceDir, sut.RawName); scanner.Exists(rawDir) {
			dirs, err := scanner.Dirs(rawDir)
			if err != nil {
				return nil, err
			}
			p.ResultRuns = len(dirs)
		}

		result.SUTs = append(result.SUTs, p)
	}

	return result, nil
}

// Describe renders the preview as human-readable lines.
func (p *PreviewResult) Describe() []string {
	lines := []string{fmt.Sprintf("Mode: %s", p.Mode)}
	for _, s := range p.SUTs {
		wp := s.WorkloadFolder
		if wp == "" {
			wp = "(none)"
		}
		lines = append(lines, fmt.Sprintf("%s (raw %q): workload folder %s, %d workload run(s), %d result run(s)",
			s.CanonicalID, s.RawName, wp, s.WorkloadRuns, s.ResultRuns))
	}
	return lines
}
