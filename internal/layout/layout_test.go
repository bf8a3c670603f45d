package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Rishita-Infobell/FolderRestructure-Automation/internal/topology"
)

func fixedID(id string) IDGenerator {
	return func() string { return id }
}

func TestBuildCreatesSkeleton(t *testing.T) {
	target := t.TempDir()
	suts := []topology.SUT{
		topology.Normalize("VM1"),
		topology.Normalize("SUT2"),
	}

	tree, err := Build(target, fixedID("run-abc"), suts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree.Root != filepath.Join(target, "run-abc") {
		t.Errorf("Root = %q", tree.Root)
	}

	for _, sut := range []string{"SUT1", "SUT2"} {
		for _, category := range []string{PlatformProfilerDir, WorkloadProfilerDir, ResultsDir} {
			dir := filepath.Join(tree.Root, sut, category)
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				t.Errorf("missing skeleton dir %s", dir)
			}
		}
	}
}

func TestBuildRejectsExistingRoot(t *testing.T) {
	target := t.TempDir()
	if err := os.Mkdir(filepath.Join(target, "taken"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Build(target, fixedID("taken"), nil)
	if err == nil {
		t.Fatal("expected error for pre-existing output root")
	}
}

func TestBuildDefaultGeneratorUnique(t *testing.T) {
	target := t.TempDir()
	a, err := Build(target, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(target, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.ID == b.ID {
		t.Errorf("two builds produced the same id %q", a.ID)
	}
}

func TestMergedCanonicalIDsShareDirectories(t *testing.T) {
	target := t.TempDir()
	// VM1 and SUT1 both normalize to SUT1; the skeleton must tolerate that.
	suts := []topology.SUT{
		topology.Normalize("VM1"),
		topology.Normalize("SUT1"),
	}
	tree, err := Build(target, fixedID("merged"), suts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	entries, err := os.ReadDir(tree.Root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "SUT1" {
		t.Errorf("expected single merged SUT1 dir, got %v", entries)
	}
}

func TestIndexNames(t *testing.T) {
	if got := Run(3); got != "run3" {
		t.Errorf("Run(3) = %q", got)
	}
	if got := Iteration(1); got != "iteration1" {
		t.Errorf("Iteration(1) = %q", got)
	}
	if got := Instance(12); got != "instance12" {
		t.Errorf("Instance(12) = %q", got)
	}
}
