// Package watcher monitors a drop directory for arriving raw benchmark
// trees and tar.gz bundles, handing each stable arrival to a handler for
// restructuring.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig contains watcher settings.
type WatchConfig struct {
	DebounceSeconds   int      `json:"debounceSeconds"`   // Delay before processing (default: 2)
	StableThresholdMs int      `json:"stableThresholdMs"` // Size stability threshold for archives (default: 1000)
	IgnorePatterns    []string `json:"ignorePatterns,omitempty"`
}

// DefaultWatchConfig returns a WatchConfig with sensible defaults.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceSeconds:   2,
		StableThresholdMs: 1000,
		IgnorePatterns:    DefaultIgnorePatterns(),
	}
}

// WatchSummary contains stats from the watch session.
type WatchSummary struct {
	Restructured int
	Failed       int
	Skipped      int
	Duration     time.Duration
}

// ArrivalHandler processes one arrived source (a directory tree or a tar.gz
// bundle). A returned error counts the arrival as failed; the session
// continues either way.
type ArrivalHandler func(path string) error

// Watcher monitors one drop directory for new arrivals.
type Watcher struct {
	config    *WatchConfig
	handler   ArrivalHandler
	fsWatcher *fsnotify.Watcher
	filter    *FileFilter
	debouncer *Debouncer
	stability *StabilityChecker
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	mu           sync.Mutex
	restructured int
	failed       int
	skipped      int
}

// New creates a Watcher with the given configuration and handler.
// If config is nil, defaults are used.
func New(config *WatchConfig, handler ArrivalHandler) *Watcher {
	if config == nil {
		config = DefaultWatchConfig()
	}
	w := &Watcher{
		config:    config,
		handler:   handler,
		filter:    NewFileFilter(config.IgnorePatterns),
		stability: NewStabilityChecker(time.Duration(config.StableThresholdMs) * time.Millisecond),
		done:      make(chan struct{}),
	}
	w.debouncer = NewDebouncer(time.Duration(config.DebounceSeconds)*time.Second, w.processArrival)
	return w
}

// Start begins watching the drop directory. The watcher runs until Stop is
// called.
func (w *Watcher) Start(dropDir string) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(dropDir)
	if err != nil {
		w.fsWatcher.Close()
		return err
	}
	if err := w.fsWatcher.Add(absDir); err != nil {
		w.fsWatcher.Close()
		return err
	}

	w.startTime = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop gracefully shuts down the watcher and returns a session summary.
func (w *Watcher) Stop() *WatchSummary {
	close(w.done)
	w.wg.Wait()
	w.debouncer.CancelAll()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return &WatchSummary{
		Restructured: w.restructured,
		Failed:       w.failed,
		Skipped:      w.skipped,
		Duration:     time.Since(w.startTime),
	}
}

// processEvents consumes fsnotify events until Stop.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// New arrivals surface as Create; Write events on an archive
			// still being uploaded reset its debounce timer.
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handleEvent(event.Name)
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(path string) {
	if w.filter.ShouldIgnore(path) {
		w.mu.Lock()
		w.skipped++
		w.mu.Unlock()
		return
	}
	w.debouncer.Add(path)
}

// processArrival runs after the debounce delay: archives are additionally
// held until their size stabilizes, then the handler takes over.
func (w *Watcher) processArrival(path string) {
	if IsArchiveName(path) {
		if err := w.stability.WaitForStable(path); err != nil {
			w.mu.Lock()
			w.failed++
			w.mu.Unlock()
			return
		}
	}

	err := w.handler(path)
	w.mu.Lock()
	if err != nil {
		w.failed++
	} else {
		w.restructured++
	}
	w.mu.Unlock()
}

// GetConfig returns the current watcher configuration.
func (w *Watcher) GetConfig() *WatchConfig {
	return w.config
}
