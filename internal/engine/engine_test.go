package engine

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree materializes a source tree from path->content entries relative
// to root. A trailing slash creates a directory.
func buildTree(t *testing.T, root string, entries map[string]string) {
	t.Helper()
	for rel, content := range entries {
		path := filepath.Join(root, rel)
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testOptions(source, target string) Options {
	return Options{
		SourceDir: source,
		TargetDir: target,
		IDGen:     func() string { return "fixed" },
		Logger:    quietLogger(),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "expected file at %s", path)
	return string(data)
}

func TestMultiSystemPlatformFlatFiles(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/":                   "",
		"VM2/":                   "",
		"PlatformProfile/a.txt":  "aaa",
		"PlatformProfile/b.txt":  "bbb",
	})

	report, err := Run(testOptions(source, target))
	require.NoError(t, err)

	// A flat platform profile is replicated for every SUT.
	for _, sut := range []string{"SUT1", "SUT2"} {
		base := filepath.Join(target, "fixed", sut, "PlatformProfiler")
		assert.Equal(t, "aaa", readFile(t, filepath.Join(base, "a.txt")))
		assert.Equal(t, "bbb", readFile(t, filepath.Join(base, "b.txt")))
	}
	assert.Equal(t, []string{"SUT1", "SUT2"}, report.SUTs)
}

func TestMultiSystemPlatformRunSubdirsSorted(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/":                        "",
		"PlatformProfile/pp2/m.txt":   "second",
		"PlatformProfile/pp1/m.txt":   "first",
		"PlatformProfile/loose.txt":   "ignored when subdirs exist",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT1", "PlatformProfiler")
	// Sorted assignment: pp1 -> run1, pp2 -> run2, regardless of discovery order.
	assert.Equal(t, "first", readFile(t, filepath.Join(base, "run1", "m.txt")))
	assert.Equal(t, "second", readFile(t, filepath.Join(base, "run2", "m.txt")))
	// Subdir-run layout takes precedence over the flat file.
	_, statErr := os.Stat(filepath.Join(base, "loose.txt"))
	assert.True(t, os.IsNotExist(statErr), "flat file must not be copied when subdirs exist")
}

func TestMultiSystemPlatformBothCandidatesApplied(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"SUT1/":                 "",
		"PlatformProfile/a.txt": "from-platformprofile",
		"Host-pp/a.txt":         "from-hostpp",
		"Host-pp/b.txt":         "only-hostpp",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT1", "PlatformProfiler")
	// Host-pp is applied after PlatformProfile and wins the collision.
	assert.Equal(t, "from-hostpp", readFile(t, filepath.Join(base, "a.txt")))
	assert.Equal(t, "only-hostpp", readFile(t, filepath.Join(base, "b.txt")))
}

func TestMultiSystemWorkloadLexicographicRuns(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM3/":                 "",
		"wp-vm3/run_b.json":    "b",
		"wp-vm3/run_a.json":    "a",
		"wp-vm3/readme.txt":    "not json",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT3", "WorkloadProfiler")
	assert.Equal(t, "a", readFile(t, filepath.Join(base, "run1", "iteration1", "run_a.json")))
	assert.Equal(t, "b", readFile(t, filepath.Join(base, "run2", "iteration1", "run_b.json")))
	_, statErr := os.Stat(filepath.Join(base, "run3"))
	assert.True(t, os.IsNotExist(statErr), "non-json files must not take run slots")
}

func TestMultiSystemWorkloadReplicatesAcrossIterations(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/":                     "",
		"wp-vm1/capture.json":      "cap",
		"wp-vm1/iteration1/":       "",
		"wp-vm1/Iteration2/":       "",
		"wp-vm1/other-subdir/":     "",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT1", "WorkloadProfiler", "run1")
	// Full replication into every iteration subdir, not 1:1 pairing.
	assert.Equal(t, "cap", readFile(t, filepath.Join(base, "iteration1", "capture.json")))
	assert.Equal(t, "cap", readFile(t, filepath.Join(base, "Iteration2", "capture.json")))
	_, statErr := os.Stat(filepath.Join(base, "other-subdir"))
	assert.True(t, os.IsNotExist(statErr), "non-iteration subdirs are not run slots")
}

func TestMultiSystemWorkloadMatchesNumericKey(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/":              "",
		"VM2/":              "",
		"wp-vm1/one.json":   "one",
		"wp-vm2/two.json":   "two",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	root := filepath.Join(target, "fixed")
	assert.Equal(t, "one", readFile(t, filepath.Join(root, "SUT1", "WorkloadProfiler", "run1", "iteration1", "one.json")))
	assert.Equal(t, "two", readFile(t, filepath.Join(root, "SUT2", "WorkloadProfiler", "run1", "iteration1", "two.json")))
}

func TestResultsInstanceNumbersFromFilenames(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/run-a/log-run2-x.txt": "log2",
		"VM1/run-a/notes.txt":      "notes",
	})

	report, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT1", "Results", "run1", "iteration1")
	assert.Equal(t, "log2", readFile(t, filepath.Join(base, "instance2", "log-run2-x.txt")))
	assert.Equal(t, "notes", readFile(t, filepath.Join(base, "instance1", "notes.txt")))

	// The silent default is surfaced as a warning.
	var implicit int
	for _, w := range report.Warnings {
		if w.Code == WarnImplicitInstance {
			implicit++
		}
	}
	assert.Equal(t, 1, implicit)
}

func TestResultsExistingInstanceStructureCopiedVerbatim(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/r1/iteration1/worker-a/out.log":      "a",
		"VM1/r1/iteration1/worker-b/sub/deep.log": "b",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT1", "Results", "run1", "iteration1")
	assert.Equal(t, "a", readFile(t, filepath.Join(base, "worker-a", "out.log")))
	assert.Equal(t, "b", readFile(t, filepath.Join(base, "worker-b", "sub", "deep.log")))
}

func TestResultsIterationWithLooseSubdir(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/r1/iteration1/log-run3-a.txt": "three",
		"VM1/r1/iteration1/extras/e.txt":   "extra",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT1", "Results", "run1", "iteration1")
	// Files are instance-routed, subdirectories carried over verbatim.
	assert.Equal(t, "three", readFile(t, filepath.Join(base, "instance3", "log-run3-a.txt")))
	assert.Equal(t, "extra", readFile(t, filepath.Join(base, "extras", "e.txt")))
}

func TestResultsBenchmarkLogSubstitution(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/r1/BenchmarkLog/log-run1-a.txt": "one",
		"VM1/r1/BenchmarkLog/log-run2-a.txt": "two",
		"VM1/r1/ignored-when-benchlog.txt":   "nope",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT1", "Results", "run1", "iteration1")
	assert.Equal(t, "one", readFile(t, filepath.Join(base, "instance1", "log-run1-a.txt")))
	assert.Equal(t, "two", readFile(t, filepath.Join(base, "instance2", "log-run2-a.txt")))
	_, statErr := os.Stat(filepath.Join(base, "instance1", "ignored-when-benchlog.txt"))
	assert.True(t, os.IsNotExist(statErr), "BenchmarkLog substitutes for run contents")
}

func TestResultsSubdirSkippedWithoutIterations(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/r1/out.txt":        "out",
		"VM1/r1/sysdata/x.txt":  "dropped",
	})

	report, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT1", "Results", "run1", "iteration1")
	assert.Equal(t, "out", readFile(t, filepath.Join(base, "instance1", "out.txt")))

	var skipped bool
	for _, w := range report.Warnings {
		if w.Code == WarnSubdirSkipped {
			skipped = true
		}
	}
	assert.True(t, skipped, "dropped subdirectory must be surfaced as a warning")
}

func TestResultsRunIndicesDenseAndSorted(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/zeta/a.txt":   "z",
		"VM1/alpha/a.txt":  "a",
		"VM1/loose.txt":    "not a run dir",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	base := filepath.Join(target, "fixed", "SUT1", "Results")
	assert.Equal(t, "a", readFile(t, filepath.Join(base, "run1", "iteration1", "instance1", "a.txt")))
	assert.Equal(t, "z", readFile(t, filepath.Join(base, "run2", "iteration1", "instance1", "a.txt")))
	_, statErr := os.Stat(filepath.Join(base, "run3"))
	assert.True(t, os.IsNotExist(statErr), "non-directory entries must not consume run indices")
}

func TestMultiSystemRootFileBroadcast(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/":        "",
		"SUT2/":       "",
		"summary.txt": "shared",
	})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	for _, sut := range []string{"SUT1", "SUT2"} {
		assert.Equal(t, "shared", readFile(t, filepath.Join(target, "fixed", sut, "summary.txt")))
	}
}

func TestMergedSUTNamesShareOutput(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/ra/a.txt":  "from-vm1",
		"SUT1/rb/b.txt": "from-sut1",
	})

	report, err := Run(testOptions(source, target))
	require.NoError(t, err)

	// Both raw names normalize to SUT1 and merge into one canonical dir.
	assert.Equal(t, []string{"SUT1", "SUT1"}, report.SUTs)
	base := filepath.Join(target, "fixed", "SUT1", "Results")
	assert.Equal(t, "from-vm1", readFile(t, filepath.Join(base, "run1", "iteration1", "instance1", "a.txt")))
	assert.Equal(t, "from-sut1", readFile(t, filepath.Join(base, "run1", "iteration1", "instance1", "b.txt")))
}

func TestSkeletonCreatedEvenWhenEmpty(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{"VM1/": ""})

	_, err := Run(testOptions(source, target))
	require.NoError(t, err)

	for _, category := range []string{"PlatformProfiler", "WorkloadProfiler", "Results"} {
		info, err := os.Stat(filepath.Join(target, "fixed", "SUT1", category))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSourceTreeNeverMutated(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{
		"VM1/r1/log-run1-a.txt": "one",
		"PlatformProfile/p.txt": "p",
		"wp-vm1/w.json":         "w",
		"root.txt":              "r",
	})

	before := snapshotTree(t, source)
	_, err := Run(testOptions(source, target))
	require.NoError(t, err)
	after := snapshotTree(t, source)

	assert.Equal(t, before, after, "source tree must be read-only")
}

func TestRunReusedOutputRootRejected(t *testing.T) {
	source, target := t.TempDir(), t.TempDir()
	buildTree(t, source, map[string]string{"VM1/": ""})
	require.NoError(t, os.Mkdir(filepath.Join(target, "fixed"), 0755))

	_, err := Run(testOptions(source, target))
	require.Error(t, err)
}

func TestRunMissingSourceFatal(t *testing.T) {
	target := t.TempDir()
	_, err := Run(testOptions(filepath.Join(target, "absent"), target))
	require.Error(t, err)
}

// snapshotTree maps every relative path under root to its file content
// (directories map to "/").
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	snap := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			snap[rel] = "/"
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return snap
}
