package articles

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultDebounce is the quiet period after the last change before a refresh.
const DefaultDebounce = 250 * time.Millisecond

// ErrWatcherFailed indicates the filesystem watcher could not be initialised.
var ErrWatcherFailed = errors.New("failed to initialize content watcher")

// Refresher reloads the article collection.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the quiet period.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithRecursive watches sub-directories too.
func WithRecursive(recursive bool) WatcherOption {
	return func(w *Watcher) {
		w.recursive = recursive
	}
}

// WithMatcher limits refreshes to files accepted by match.
func WithMatcher(match func(name string) bool) WatcherOption {
	return func(w *Watcher) {
		if match != nil {
			w.match = match
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(logger interfaces.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher refreshes the collection when files in the content directory change.
type Watcher struct {
	dir       string
	refresher Refresher
	debounce  time.Duration
	recursive bool
	match     func(string) bool
	logger    interfaces.Logger
}

// NewWatcher constructs a Watcher for dir.
func NewWatcher(dir string, refresher Refresher, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:       dir,
		refresher: refresher,
		debounce:  DefaultDebounce,
		match: func(name string) bool {
			return strings.EqualFold(filepath.Ext(name), ".md")
		},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run watches until ctx is cancelled. Refresh failures are logged and the
// previous snapshot stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	defer watcher.Close()

	if err := w.addDirs(watcher, w.dir); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.recursive {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirs(watcher, event.Name); err != nil {
						w.logger.Warn("articles.watch_add_failed", "path", event.Name, "error", err)
					}
					timer.Reset(w.debounce)
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("articles.watch_error", "error", err)
		case <-timer.C:
			if _, err := w.refresher.Refresh(ctx); err != nil {
				w.logger.WithContext(ctx).Error("articles.refresh_failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.match(event.Name)
}

func (w *Watcher) addDirs(watcher *fsnotify.Watcher, root string) error {
	if !w.recursive {
		if err := watcher.Add(root); err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
