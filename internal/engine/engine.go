// Package engine implements the classification-and-remapping pipeline that
// normalizes raw benchmark trees into the canonical SUT/category layout.
package engine

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/layout"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/manifest"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/topology"
)

// Policy selects how single-system WorkloadProfiler artifacts are replicated
// into run slots.
type Policy string

const (
	// PolicyShared replicates the first artifact found across every
	// Logs-derived run slot.
	PolicyShared Policy = "shared"
	// PolicyPerArtifact assigns each artifact its own sequential run,
	// independent of the Logs-derived run count.
	PolicyPerArtifact Policy = "per-artifact"
)

// Fixed source-tree folder names of the single-system convention.
const (
	logsFolder       = "Logs"
	workloadFolder   = "WorkloadProfiler"
	benchmarkLogName = "BenchmarkLog"
)

// Options configures one engine invocation.
type Options struct {
	SourceDir string
	TargetDir string

	// Policy defaults to PolicyShared.
	Policy Policy

	// ManualResultFile is the single-system root file routed to the SUT
	// root, compared case-insensitively.
	ManualResultFile string

	// PlatformSources are the candidate platform-profile folder names,
	// tried in order. Defaults to PlatformProfile then Host-pp.
	PlatformSources []string

	// IDGen names the output root; defaults to UUID v4.
	IDGen layout.IDGenerator

	// Logger receives structured progress and warning output.
	Logger logrus.FieldLogger

	// Manifest enables the placement manifest in the output root.
	Manifest bool
}

func (o *Options) applyDefaults() {
	if o.Policy == "" {
		o.Policy = PolicyShared
	}
	if o.ManualResultFile == "" {
		o.ManualResultFile = "epyc_manual_result.json"
	}
	if len(o.PlatformSources) == 0 {
		o.PlatformSources = []string{"PlatformProfile", "Host-pp"}
	}
	if o.IDGen == nil {
		o.IDGen = layout.UUIDGenerator
	}
	if o.Logger == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		o.Logger = logger
	}
}

// Engine drives one restructuring invocation. It reads only from the source
// tree and writes only beneath the single output root allocated at start.
type Engine struct {
	opts Options
	log  logrus.FieldLogger
	tree *layout.Tree
	man  *manifest.Writer
	rep  *Report
}

// Run executes the full pipeline: classify the topology, allocate the
// canonical output tree, and run the mapper family for every SUT.
func Run(opts Options) (*Report, error) {
	opts.applyDefaults()

	cls, err := topology.Classify(opts.SourceDir)
	if err != nil {
		return nil, err
	}

	suts := cls.SUTs
	if cls.Mode == topology.SingleSystem {
		suts = []topology.SUT{topology.SyntheticSingleSUT()}
	}

	tree, err := layout.Build(opts.TargetDir, opts.IDGen, suts)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		opts: opts,
		log:  opts.Logger,
		tree: tree,
		rep:  newReport(tree.Root, cls.Mode, suts),
	}

	if opts.Manifest {
		man, err := manifest.NewWriter(tree.Root)
		if err != nil {
			return nil, err
		}
		defer man.Close()
		e.man = man
	}

	e.log.WithFields(logrus.Fields{
		"mode": cls.Mode,
		"suts": len(suts),
		"root": tree.Root,
	}).Debug("classified source tree")

	if cls.Mode == topology.MultiSystem {
		err = e.runMultiSystem(suts)
	} else {
		err = e.runSingleSystem(suts[0])
	}
	if err != nil {
		return e.rep, err
	}

	return e.rep, nil
}

// runMultiSystem processes every discovered SUT, then broadcasts root files.
func (e *Engine) runMultiSystem(suts []topology.SUT) error {
	for _, sut := range suts {
		if err := e.mapPlatform(sut); err != nil {
			return err
		}
		if err := e.mapWorkload(sut); err != nil {
			return err
		}
		if err := e.reconcileResults(sut, filepath.Join(e.opts.SourceDir, sut.RawName)); err != nil {
			return err
		}
	}
	return e.broadcastRootFiles(suts)
}

// runSingleSystem runs the manual-convention pipeline against the synthetic
// SUT1: platform artifacts, the configured workload replication policy, the
// Logs-derived results, and finally the root-level file routing.
func (e *Engine) runSingleSystem(sut topology.SUT) error {
	if err := e.mapPlatformSingle(sut); err != nil {
		return err
	}
	if err := e.mapWorkloadSingle(sut); err != nil {
		return err
	}
	if err := e.reconcileLogs(sut); err != nil {
		return err
	}
	return e.routeRootFilesSingle(sut)
}

// record notes one placement in the report and, when enabled, the manifest.
func (e *Engine) record(rec manifest.Record) error {
	e.rep.Placements++
	if e.man == nil {
		return nil
	}
	if err := e.man.Append(rec); err != nil {
		return fmt.Errorf("manifest append failed: %w", err)
	}
	return nil
}

// warn logs a recoverable condition and accumulates it on the report.
func (e *Engine) warn(w Warning) {
	e.rep.Warnings = append(e.rep.Warnings, w)
	e.log.WithFields(logrus.Fields{
		"code": w.Code,
		"sut":  w.SUT,
		"path": w.Path,
	}).Warn(w.Detail)
}
