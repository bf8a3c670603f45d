// Package main provides the CLI entry point for the restructure tool.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/archive"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/config"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/engine"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/output"
	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/watcher"
)

func main() {
	var (
		configFile string
		policy     string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "restructure",
		Short: "Normalize raw benchmark output into the canonical SUT layout",
		Long: "Ingests heterogeneous benchmark-run output (multi-system VM/SUT trees or\n" +
			"single-system manual captures) and copies every artifact to its canonical\n" +
			"SUT/PlatformProfiler|WorkloadProfiler|Results destination.",
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	runCmd := &cobra.Command{
		Use:   "run <source-dir> <target-dir>",
		Short: "Restructure one raw source tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestructure(args[0], args[1], configFile, policy, verbose)
		},
	}
	runCmd.Flags().StringVar(&policy, "policy", "", "Single-system workload replication policy (shared|per-artifact)")

	validateCmd := &cobra.Command{
		Use:   "validate <source-dir>",
		Short: "Classify a source tree and report what a run would discover",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], configFile, verbose)
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch <drop-dir> <target-dir>",
		Short: "Watch a drop directory and restructure arrivals automatically",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], args[1], configFile, policy, verbose)
		},
	}
	watchCmd.Flags().StringVar(&policy, "policy", "", "Single-system workload replication policy (shared|per-artifact)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the configuration file when given, defaults otherwise.
func loadConfig(configFile string) (*config.Configuration, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	return config.Load(configFile)
}

// buildOptions translates configuration and flags into engine options.
func buildOptions(cfg *config.Configuration, sourceDir, targetDir, policy string, verbose bool) engine.Options {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	effectivePolicy := cfg.ReplicationPolicy
	if policy != "" {
		effectivePolicy = policy
	}

	return engine.Options{
		SourceDir:        sourceDir,
		TargetDir:        targetDir,
		Policy:           engine.Policy(effectivePolicy),
		ManualResultFile: cfg.ManualResultFile,
		PlatformSources:  cfg.PlatformSources,
		Logger:           logger,
		Manifest:         !cfg.DisableManifest,
	}
}

func runRestructure(sourceDir, targetDir, configFile, policy string, verbose bool) error {
	out := output.New(outputConfig(verbose))

	cfg, err := loadConfig(configFile)
	if err != nil {
		out.Error("%v", err)
		return err
	}
	out.Verbose("Restructuring %s -> %s (policy %s)", sourceDir, targetDir, cfg.ReplicationPolicy)

	report, err := engine.Run(buildOptions(cfg, sourceDir, targetDir, policy, verbose))
	if report != nil {
		for _, w := range report.Warnings {
			out.Warning("%s: %s (%s)", w.Code, w.Path, w.Detail)
		}
	}
	if err != nil {
		out.Error("Error: %v", err)
		if report != nil {
			out.Error("Partial output left at %s", report.OutputRoot)
		}
		return err
	}

	out.Info("%s", report.Summary())
	return nil
}

func runValidate(sourceDir, configFile string, verbose bool) error {
	out := output.New(outputConfig(verbose))

	cfg, err := loadConfig(configFile)
	if err != nil {
		out.Error("%v", err)
		return err
	}

	opts := buildOptions(cfg, sourceDir, "", "", verbose)
	preview, err := engine.Preview(opts)
	if err != nil {
		out.Error("Error: %v", err)
		return err
	}

	for _, line := range preview.Describe() {
		out.Info("%s", line)
	}
	return nil
}

func runWatch(dropDir, targetDir, configFile, policy string, verbose bool) error {
	out := output.New(outputConfig(verbose))

	cfg, err := loadConfig(configFile)
	if err != nil {
		out.Error("%v", err)
		return err
	}

	handler := func(path string) error {
		sourceDir := path

		// Archive arrivals are extracted into a temp tree first; the
		// drop directory itself is never used as a source root.
		if watcher.IsArchiveName(path) {
			tmp, err := os.MkdirTemp("", "restructure-drop-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(tmp)
			if err := archive.ExtractTarGz(path, tmp); err != nil {
				out.Warning("skipping %s: %v", path, err)
				return err
			}
			sourceDir = tmp
		} else if info, err := os.Stat(path); err != nil || !info.IsDir() {
			// Loose non-archive files are not source trees.
			return nil
		}

		report, err := engine.Run(buildOptions(cfg, sourceDir, targetDir, policy, verbose))
		if err != nil {
			out.Error("Error processing %s: %v", path, err)
			return err
		}
		for _, w := range report.Warnings {
			out.Warning("%s: %s (%s)", w.Code, w.Path, w.Detail)
		}
		out.Info("%s", report.Summary())
		return nil
	}

	w := watcher.New(cfg.Watch, handler)
	if err := w.Start(dropDir); err != nil {
		out.Error("Error: %v", err)
		return err
	}
	out.Info("Watching %s (Ctrl+C to stop)", dropDir)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	summary := w.Stop()
	out.Info("Watch session: %d restructured, %d failed, %d skipped in %s",
		summary.Restructured, summary.Failed, summary.Skipped, summary.Duration.Round(time.Second))
	return nil
}

func outputConfig(verbose bool) output.Config {
	cfg := output.DefaultConfig()
	cfg.Verbose = verbose
	return cfg
}
