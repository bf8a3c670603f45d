// Package topology classifies raw benchmark trees and normalizes SUT names.
package topology

import (
	"strings"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/nameparse"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/scanner"
)

// Mode identifies which of the two raw-tree conventions a source follows.
type Mode string

const (
	// MultiSystem trees carry one or more named VM/SUT folders at the root.
	MultiSystem Mode = "MULTI_SYSTEM"
	// SingleSystem trees are the flat manual convention
	// (Logs / PlatformProfile / WorkloadProfiler at the root).
	SingleSystem Mode = "SINGLE_SYSTEM"
)

// sutPrefixes are the raw folder-name prefixes that mark a SUT directory.
// Matching is a case-insensitive prefix test only; the strings appearing
// elsewhere in a name do not count.
var sutPrefixes = []string{"vm", "sut"}

// SUT describes one system under test discovered in a raw tree.
type SUT struct {
	RawName     string // Folder name as found in the source tree
	CanonicalID string // "SUT" + remainder after the vm/sut prefix
	NumericKey  string // All digit characters of the raw name, in order
}

// Classification is the outcome of inspecting a source tree's root.
type Classification struct {
	Mode Mode
	SUTs []SUT // Sorted by raw name; empty in SingleSystem mode
}

// Classify lists the immediate subdirectories of sourceDir and decides the
// tree's mode. The presence of at least one SUT-named folder selects
// MultiSystem; otherwise the tree is treated as a single-system capture.
func Classify(sourceDir string) (*Classification, error) {
	dirs, err := scanner.Dirs(sourceDir)
	if err != nil {
		return nil, err
	}

	var suts []SUT
	for _, d := range dirs {
		if HasSUTPrefix(d.Name) {
			suts = append(suts, Normalize(d.Name))
		}
	}

	if len(suts) == 0 {
		return &Classification{Mode: SingleSystem}, nil
	}
	return &Classification{Mode: MultiSystem, SUTs: suts}, nil
}

// HasSUTPrefix reports whether a folder name marks a SUT directory.
func HasSUTPrefix(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range sutPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Normalize maps a raw SUT folder name to its canonical identity.
// The canonical id keeps the original casing of the remainder; the numeric
// key collects digits from anywhere in the raw name, so "SUT_primary3"
// yields id "SUT_primary3" but key "3".
func Normalize(rawName string) SUT {
	remainder := rawName
	lower := strings.ToLower(rawName)
	for _, p := range sutPrefixes {
		if strings.HasPrefix(lower, p) {
			remainder = rawName[len(p):]
			break
		}
	}

	return SUT{
		RawName:     rawName,
		CanonicalID: "SUT" + remainder,
		NumericKey:  nameparse.Digits(rawName),
	}
}

// SyntheticSingleSUT is the SUT identity used for single-system trees.
func SyntheticSingleSUT() SUT {
	return SUT{RawName: "", CanonicalID: "SUT1", NumericKey: "1"}
}
