// Package watch re-runs a batch whenever the content tree changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/wikimatter/internal/logfields"
)

// DefaultDebounce is how long the tree must be quiet before a rerun.
const DefaultDebounce = 300 * time.Millisecond

// Watcher triggers Rebuild after filesystem changes below Dir settle.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	// IgnoreSuffixes lists file suffixes (backups, staged output) that never trigger a rerun.
	IgnoreSuffixes []string
	Rebuild        func(ctx context.Context) error
	Logger         *slog.Logger
}

// Run blocks until ctx is done, calling Rebuild at most once at a time.
// Changes arriving during a rebuild queue exactly one more run.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	addDirsRecursive(watcher, w.Dir, logger)

	rebuildReq, trigger, stop := w.debouncer()
	defer stop()
	done := w.startWorker(ctx, rebuildReq, logger)

	logger.Info("Watching for changes", logfields.Path(w.Dir))
	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, ev, trigger, logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

// debouncer returns a rebuild channel and a trigger that fires once after the
// debounce window with no further calls.
func (w *Watcher) debouncer() (chan struct{}, func(), func()) {
	delay := w.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}

	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

func (w *Watcher) startWorker(ctx context.Context, rebuildReq chan struct{}, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				logger.Info("Change detected; rerunning batch")
				if err := w.Rebuild(ctx); err != nil {
					logger.Warn("rerun failed", logfields.Error(err))
				}
			}
		}
	}()
	return done
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func(), logger *slog.Logger) {
	if w.shouldIgnore(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name, logger)
		}
	}
	logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnore returns true for events that should not trigger a rerun.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	for _, suffix := range w.IgnoreSuffixes {
		if suffix != "" && strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return base == "Thumbs.db"
}
