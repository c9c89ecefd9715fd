package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/toyz/arrow/internal/models"
)

// DefaultDebounce is how long the watcher waits for edits to settle
const DefaultDebounce = 150 * time.Millisecond

// ErrWatcherClosed is returned when Watch is called on a closed watcher
var ErrWatcherClosed = errors.New("cli: watcher already closed")

// RunFunc receives the outcome of every re-generation
type RunFunc func(file *models.GeneratedFile, err error)

// Watcher re-runs the whole pipeline whenever a scanned Go file changes
type Watcher struct {
	generator *Generator
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	onRun     RunFunc
	logger    zerolog.Logger

	mu      sync.Mutex
	pending map[string]bool
	closed  bool
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithDebounce sets the settle delay for bursts of file events
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// OnRun registers the callback invoked after each re-generation
func OnRun(fn RunFunc) WatcherOption {
	return func(w *Watcher) { w.onRun = fn }
}

// NewWatcher creates a watcher over the directories g scans
func NewWatcher(g *Generator, opts ...WatcherOption) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		generator: g,
		fsWatcher: fsWatcher,
		debounce:  DefaultDebounce,
		onRun:     func(*models.GeneratedFile, error) {},
		logger:    g.logger.With().Str("stage", "watch").Logger(),
		pending:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsWatcher.Close(); closeErr != nil {
			w.logger.Error().Err(closeErr).Msg("failed to close watcher after add failure")
		}
		return nil, err
	}
	return w, nil
}

// addDirectories watches every scanned directory not watched yet
func (w *Watcher) addDirectories() error {
	dirs, err := w.generator.scanner.ScanDirectories(w.generator.config.Directories)
	if err != nil {
		return err
	}
	watched := lo.SliceToMap(w.fsWatcher.WatchList(), func(dir string) (string, bool) {
		return filepath.Clean(dir), true
	})
	for _, dir := range dirs {
		if watched[dir] {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
		w.logger.Debug().Str("dir", dir).Msg("watching")
	}
	return nil
}

// Watch blocks until ctx is cancelled. Events are debounced and
// re-generation runs on this goroutine, one run at a time.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ErrWatcherClosed
	}

	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !w.shouldProcessEvent(event) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = true
			w.mu.Unlock()

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			w.regenerate(ctx)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("watcher error")
		}
	}
}

// shouldProcessEvent keeps source edits and new directories, and drops
// chmod noise and the generated file itself
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if w.generator.scanner.IsSource(event.Name) {
		return true
	}
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		return err == nil && info.IsDir()
	}
	return false
}

func (w *Watcher) regenerate(ctx context.Context) {
	w.mu.Lock()
	changed := lo.Keys(w.pending)
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	w.generator.Invalidate(changed...)
	if err := w.addDirectories(); err != nil {
		w.logger.Warn().Err(err).Msg("failed to watch new directories")
	}

	w.logger.Debug().Strs("changed", changed).Msg("regenerating")
	file, err := w.generator.Run(ctx)
	w.onRun(file, err)
}

// Close stops watching and releases resources
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	w.closed = true
	return w.fsWatcher.Close()
}
