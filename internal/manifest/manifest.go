// Package manifest records every artifact placement as an append-only
// JSON Lines log inside the output root, giving downstream aggregation
// tooling full traceability of where each canonical file came from.
package manifest

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Filename is the manifest's name inside the canonical output root.
const Filename = "manifest.jsonl"

// Category identifies which mapper placed an artifact.
type Category string

const (
	CategoryPlatform Category = "PLATFORM_PROFILER"
	CategoryWorkload Category = "WORKLOAD_PROFILER"
	CategoryResults  Category = "RESULTS"
	CategoryRoot     Category = "ROOT_FILE"
)

// Record is one placement event.
type Record struct {
	Timestamp   string   `json:"timestamp"`
	SUT         string   `json:"sut"`
	Category    Category `json:"category"`
	Run         int      `json:"run,omitempty"`
	Iteration   string   `json:"iteration,omitempty"`
	Instance    int      `json:"instance,omitempty"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
}

// Writer appends placement records to the manifest file. It is append-only
// and fail-fast: a write error surfaces immediately rather than leaving a
// silently truncated log.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	now  func() time.Time
}

// NewWriter opens (or creates) the manifest inside outputRoot.
func NewWriter(outputRoot string) (*Writer, error) {
	path := filepath.Join(outputRoot, Filename)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Writer{
		file: file,
		buf:  bufio.NewWriter(file),
		now:  time.Now,
	}, nil
}

// Append writes one record as a JSON line. The timestamp is filled in here
// so callers only describe the placement itself.
func (w *Writer) Append(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec.Timestamp = w.now().UTC().Format(time.RFC3339)
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.buf.Write(line); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	return w.buf.Flush()
}

// Close flushes and closes the manifest file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Read loads every record from a manifest file, in order.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
