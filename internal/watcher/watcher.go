// Package watcher re-runs the batch whenever one of its input files changes.
package watcher

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig contains watcher settings.
type WatchConfig struct {
	Debounce        time.Duration // quiet period before a re-run
	StableThreshold time.Duration // input size must be unchanged this long; 0 disables
}

// DefaultWatchConfig returns a WatchConfig with sensible defaults.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{
		Debounce:        500 * time.Millisecond,
		StableThreshold: 200 * time.Millisecond,
	}
}

// WatchSummary contains stats from the watch session.
type WatchSummary struct {
	Events   int // input change events seen
	Runs     int
	Failures int
	Duration time.Duration
}

// RunFunc runs one batch. Runs never overlap.
type RunFunc func(ctx context.Context) error

// Watcher monitors the directories of the input files.
type Watcher struct {
	config    *WatchConfig
	inputs    *InputSet
	run       RunFunc
	logger    *slog.Logger
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	stability *StabilityChecker
	trigger   chan struct{}
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startTime time.Time

	mu       sync.Mutex
	events   int
	runs     int
	failures int
}

// New creates a Watcher for the given input files.
// If config is nil, default configuration is used.
func New(config *WatchConfig, inputs []string, run RunFunc, logger *slog.Logger) (*Watcher, error) {
	if config == nil {
		config = DefaultWatchConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	set, err := NewInputSet(inputs)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		config:    config,
		inputs:    set,
		run:       run,
		logger:    logger.With("component", "watcher"),
		stability: NewStabilityChecker(config.StableThreshold),
		trigger:   make(chan struct{}, 1),
	}
	w.debouncer = NewDebouncer(config.Debounce, w.requestRun)
	return w, nil
}

// Start begins watching. It returns an error if the watcher cannot be
// initialized. The watcher runs until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range w.inputs.Dirs() {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return err
		}
	}
	w.fsWatcher = fsWatcher

	ctx, w.cancel = context.WithCancel(ctx)
	w.startTime = time.Now()

	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.runLoop(ctx)

	w.logger.Debug("watching inputs", "inputs", w.inputs.Len(), "dirs", w.inputs.Dirs())
	return nil
}

// Stop shuts down the watcher, waits for a run in progress and returns a
// summary of the session.
func (w *Watcher) Stop() *WatchSummary {
	if w.cancel != nil {
		w.cancel()
	}
	w.debouncer.Stop()
	w.wg.Wait()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return &WatchSummary{
		Events:   w.events,
		Runs:     w.runs,
		Failures: w.failures,
		Duration: time.Since(w.startTime),
	}
}

// processEvents handles file system events from fsnotify.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.inputs.Contains(event.Name) {
				continue
			}
			w.mu.Lock()
			w.events++
			w.mu.Unlock()
			w.logger.Debug("input changed", "path", event.Name, "op", event.Op.String())
			w.debouncer.Trigger()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// requestRun queues a run; a run already queued absorbs the request.
func (w *Watcher) requestRun() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) runLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
			if err := w.stability.WaitForAll(ctx, w.inputs.Paths()); err != nil {
				if ctx.Err() != nil {
					return
				}
				w.logger.Warn("inputs did not settle, running anyway", "error", err)
			}

			err := w.run(ctx)
			w.mu.Lock()
			w.runs++
			if err != nil {
				w.failures++
			}
			w.mu.Unlock()
			if err != nil {
				w.logger.Debug("batch run failed", "error", err)
			}
		}
	}
}

// Config returns the current watcher configuration.
func (w *Watcher) Config() *WatchConfig {
	return w.config
}
