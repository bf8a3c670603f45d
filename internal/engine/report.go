package engine

import (
	"fmt"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/topology"
)

// WarningCode identifies a recoverable condition encountered during a run.
type WarningCode string

const (
	// WarnArchiveExtract marks a tar.gz that could not be extracted; the
	// artifact is omitted and processing continues.
	WarnArchiveExtract WarningCode = "ARCHIVE_EXTRACT_FAILED"
	// WarnImplicitInstance marks a results file whose instance number
	// could not be parsed and defaulted to 1.
	WarnImplicitInstance WarningCode = "IMPLICIT_INSTANCE_NUMBER"
	// WarnSubdirSkipped marks a subdirectory dropped in a results state
	// that only maps files.
	WarnSubdirSkipped WarningCode = "SUBDIR_SKIPPED"
)

// Warning is one recoverable condition, reported rather than fatal.
type Warning struct {
	Code   WarningCode
	SUT    string
	Path   string
	Detail string
}

// Report describes the outcome of one engine invocation. When Run returns
// an error alongside a report, the report covers everything placed before
// the failure, so callers can tell how far the invocation got.
type Report struct {
	OutputRoot string
	Mode       topology.Mode
	SUTs       []string // Canonical ids, in processing order
	Placements int      // Copy operations performed
	Warnings   []Warning
}

func newReport(outputRoot string, mode topology.Mode, suts []topology.SUT) *Report {
	ids := make([]string, len(suts))
	for i, s := range suts {
		ids[i] = s.CanonicalID
	}
	return &Report{
		OutputRoot: outputRoot,
		Mode:       mode,
		SUTs:       ids,
	}
}

// Summary returns a one-line human-readable result.
func (r *Report) Summary() string {
	return fmt.Sprintf("Restructured %d SUT(s): %d placement(s), %d warning(s) -> %s",
		len(r.SUTs), r.Placements, len(r.Warnings), r.OutputRoot)
}

// HasWarnings reports whether any recoverable conditions were recorded.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}
