package reload

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arloliu/roster"
	"github.com/arloliu/roster/internal/logging"
	"github.com/arloliu/roster/types"
)

// DefaultDebounce is the quiet period after the last file event before the
// configuration is re-read.
const DefaultDebounce = 200 * time.Millisecond

// RatioSetter receives role ratio updates from the watcher.
//
// *roster.Registry satisfies it; any other implementation works, for example
// a wrapper that fans one file out to several registries.
type RatioSetter interface {
	// SetRoleRatios replaces the target role ratios.
	SetRoleRatios(ratios []float64) error
}

// Watcher watches a YAML configuration file and applies roleRatios edits to
// a RatioSetter.
//
// The watch is placed on the file's directory rather than the file itself:
// editors and config management tools replace files by rename, which would
// silently detach a watch held on the old inode.
type Watcher struct {
	path     string
	target   RatioSetter
	debounce time.Duration
	logger   types.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a config file watcher.
//
// Parameters:
//   - path: the YAML configuration file to watch, must be non-empty
//   - target: receiver of ratio updates, must be non-nil
//   - opts: functional options
//
// Returns:
//   - *Watcher: the watcher, not yet started
//   - error: ErrInvalidConfig for an empty path, nil target, or non-positive
//     debounce
//
// Example:
//
//	w, err := reload.New("roster.yaml", reg,
//	    reload.WithDebounce(500*time.Millisecond))
func New(path string, target RatioSetter, opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: config path must not be empty", types.ErrInvalidConfig)
	}

	if target == nil {
		return nil, fmt.Errorf("%w: target must not be nil", types.ErrInvalidConfig)
	}

	options := &watcherOptions{
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.debounce <= 0 {
		return nil, fmt.Errorf("%w: debounce must be positive, got %v", types.ErrInvalidConfig, options.debounce)
	}

	logger := options.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Watcher{
		path:     path,
		target:   target,
		debounce: options.debounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching the file in the background.
//
// Nothing is applied until the file actually changes; call Apply first when
// the current file content should take effect immediately. A stopped watcher
// cannot be restarted.
//
// Parameters:
//   - ctx: cancels the watch loop independently of Stop
//
// Returns:
//   - error: ErrAlreadyStarted, ErrAlreadyStopped, or a file watcher setup
//     failure
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Check stopped first - once stopped, cannot restart
	if w.stopped {
		return types.ErrAlreadyStopped
	}
	if w.started {
		return types.ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %q: %w", dir, err)
	}

	w.fsw = fsw
	w.started = true

	go w.run(ctx)

	return nil
}

// Stop stops the watcher and waits for the watch loop to exit.
//
// Safe to call multiple times; subsequent calls return immediately.
//
// Returns:
//   - error: ErrNotStarted if Start was never called
func (w *Watcher) Stop() error {
	w.mu.Lock()

	if !w.started {
		w.mu.Unlock()
		return types.ErrNotStarted
	}
	if w.stopped {
		w.mu.Unlock()
		return nil // Already stopped - idempotent
	}

	w.stopped = true
	close(w.stopCh)

	w.mu.Unlock()

	// Wait for the watch loop to exit
	<-w.doneCh

	return nil
}

// Apply loads the configuration file and applies its role ratios now,
// without waiting for a file event.
//
// Returns:
//   - error: file read/parse failure, a file without roleRatios, or the
//     SetRoleRatios error (a vector length mismatch, most commonly)
func (w *Watcher) Apply() error {
	cfg, err := roster.LoadConfig(w.path)
	if err != nil {
		return err
	}

	if len(cfg.RoleRatios) == 0 {
		return fmt.Errorf("config file %s has no roleRatios", w.path)
	}

	if err := w.target.SetRoleRatios(cfg.RoleRatios); err != nil {
		return fmt.Errorf("applying role ratios from %s: %w", w.path, err)
	}

	w.logger.Info("applied role ratios from config file",
		"path", w.path,
		"ratios", cfg.RoleRatios,
	)

	return nil
}

// run is the background goroutine driving debounced reloads until stopped or
// the context ends.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.fsw.Close()

	w.logger.Debug("config watcher started", "path", w.path, "debounce", w.debounce)

	var timer *time.Timer

	for {
		select {
		case <-w.stopCh:
			return

		case <-ctx.Done():
			w.logger.Debug("config watcher context cancelled", "error", ctx.Err())
			return

		case err := <-w.fsw.Errors:
			if err != nil {
				w.logger.Warn("config watcher error", "path", w.path, "error", err)
			}

		case event := <-w.fsw.Events:
			if !w.isConfigEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				continue
			}

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timerChan(timer):
			timer = nil

			if err := w.Apply(); err != nil {
				w.logger.Warn("config reload failed", "path", w.path, "error", err)
			}
		}
	}
}

// isConfigEvent reports whether a directory event concerns the watched file.
func (w *Watcher) isConfigEvent(event fsnotify.Event) bool {
	if event.Name == "" {
		return false
	}

	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}

// timerChan returns the timer's channel, or a nil channel (never ready) for
// a nil timer.
func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}

	return timer.C
}
