package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a tier table file and swaps a freshly validated table
// into an Engine whenever the file changes. Invalid tables are rejected
// and the engine keeps its current table.
type Watcher struct {
	path    string
	engine  *Engine
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// debounceInterval coalesces editor save bursts into one reload
	debounceInterval time.Duration

	// State
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the given tier table file.
func NewWatcher(path string, engine *Engine, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:             path,
		engine:           engine,
		watcher:          fsw,
		logger:           logger.With("component", "pricing.watcher"),
		debounceInterval: 100 * time.Millisecond,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}, nil
}

// Watch blocks, reloading the table on file changes, until the context is
// cancelled or Stop is called.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	// Watch the containing directory so atomic rename-over saves are seen.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.path, err)
	}

	w.logger.Info("tier table watcher started", "path", w.path)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("tier table watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("tier table watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("tier table file event", "path", event.Name, "op", event.Op.String())

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounceInterval, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("tier table watcher error", "error", err)
			// Keep watching despite errors.
		}
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// reload parses and validates the table file and swaps it into the engine.
func (w *Watcher) reload() {
	table, err := LoadTable(w.path)
	if err != nil {
		w.logger.Error("tier table reload failed, keeping current table",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.engine.Swap(table)

	w.logger.Info("tier table reloaded",
		"path", w.path,
		"tiers", len(table.Tiers()),
		"max_units", table.MaxUnits(),
	)
}

// shouldProcessEvent filters directory events down to writes of the table file.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}
