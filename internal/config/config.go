// Package config handles configuration loading and validation for the
// restructuring tool. Every setting has a default; a config file is only
// needed to override them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/watcher"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidJSON     ConfigErrorType = "INVALID_JSON"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Replication policies for single-system WorkloadProfiler artifacts.
const (
	PolicyShared      = "shared"
	PolicyPerArtifact = "per-artifact"
)

// Configuration holds all settings for the restructuring tool.
type Configuration struct {
	// ReplicationPolicy selects how single-system WorkloadProfiler
	// artifacts map onto result runs: "shared" replicates one artifact
	// across every Logs-derived run, "per-artifact" gives each artifact
	// its own sequential run.
	ReplicationPolicy string `json:"replicationPolicy,omitempty"`

	// ManualResultFile is the root-level file routed to the SUT root in
	// single-system mode (compared case-insensitively).
	ManualResultFile string `json:"manualResultFile,omitempty"`

	// PlatformSources are the candidate platform-profile folder names,
	// tried in order; all that exist are applied.
	PlatformSources []string `json:"platformSources,omitempty"`

	// DisableManifest turns off the placement manifest inside each output
	// root. Expressed as an opt-out so an omitted key keeps the default.
	DisableManifest bool `json:"disableManifest,omitempty"`

	Watch *watcher.WatchConfig `json:"watch,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	return &Configuration{
		ReplicationPolicy: PolicyShared,
		ManualResultFile:  "epyc_manual_result.json",
		PlatformSources:   []string{"PlatformProfile", "Host-pp"},
		Watch:             watcher.DefaultWatchConfig(),
	}
}

// Validate checks that the configuration is usable.
func (c *Configuration) Validate() error {
	switch c.ReplicationPolicy {
	case PolicyShared, PolicyPerArtifact:
	default:
		return &ConfigError{
			Type: ValidationError,
			Message: fmt.Sprintf("replicationPolicy must be %q or %q, got %q",
				PolicyShared, PolicyPerArtifact, c.ReplicationPolicy),
		}
	}

	if c.ManualResultFile == "" {
		return &ConfigError{
			Type:    ValidationError,
			Message: "manualResultFile cannot be empty",
		}
	}

	if len(c.PlatformSources) == 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "platformSources must contain at least one folder name",
		}
	}
	for i, name := range c.PlatformSources {
		if name == "" {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("platformSources[%d] cannot be empty", i),
			}
		}
	}

	return nil
}

// applyDefaults fills zero-valued fields from Default.
func (c *Configuration) applyDefaults() {
	defaults := Default()
	if c.ReplicationPolicy == "" {
		c.ReplicationPolicy = defaults.ReplicationPolicy
	}
	if c.ManualResultFile == "" {
		c.ManualResultFile = defaults.ManualResultFile
	}
	if len(c.PlatformSources) == 0 {
		c.PlatformSources = defaults.PlatformSources
	}
	if c.Watch == nil {
		c.Watch = defaults.Watch
	}
}

// Load reads and parses a configuration file from the given path.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Type: FileNotFound, Path: filePath}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Type: InvalidJSON, Message: err.Error()}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save serializes and writes a configuration to the given path.
func Save(cfg *Configuration, filePath string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &ConfigError{Type: InvalidJSON, Message: err.Error()}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("failed to write configuration file: %s", err.Error()),
		}
	}
	return nil
}
