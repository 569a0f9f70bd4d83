package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher rebuilds notebooks as their source files change. Rapid saves
// are debounced so an editor writing in chunks triggers one rebuild.
type Watcher struct {
	mu          sync.Mutex
	builder     *Builder
	log         *zap.Logger
	watcher     *fsnotify.Watcher
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher wraps a builder in a filesystem watcher.
func NewWatcher(b *Builder) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		builder:     b,
		log:         b.log,
		watcher:     fw,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching the category tree. It is non-blocking; the event
// loop runs in a goroutine until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	root := filepath.Join(w.builder.cfg.SourceDir, categoriesDir)
	if err := w.watcher.Add(root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	categories, err := w.builder.categories()
	if err != nil {
		return err
	}
	for _, category := range categories {
		dir := filepath.Join(root, category)
		if err := w.watcher.Add(dir); err != nil {
			w.log.Warn("watch failed", zap.String("dir", dir), zap.Error(err))
		}
	}
	w.log.Info("watching notebook tree", zap.String("dir", root))

	go w.run(ctx)
	return nil
}

// Stop halts the event loop and closes the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing watcher", zap.Error(err))
	}
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))
		case <-ticker.C:
			w.processSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".ipynb") || strings.Contains(name, "Template") {
		return
	}
	if strings.Contains(event.Name, ".ipynb_checkpoints") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

// processSettled rebuilds notebooks whose events have sat past the
// debounce window.
func (w *Watcher) processSettled() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		if _, err := os.Stat(path); err != nil {
			// Deleted or renamed away before the rebuild fired.
			continue
		}
		category := filepath.Base(filepath.Dir(path))
		name := strings.TrimSuffix(filepath.Base(path), ".ipynb")
		if w.builder.cfg.excluded(name) {
			continue
		}
		if err := w.builder.ConvertOne(category, name); err != nil {
			w.log.Error("rebuild failed",
				zap.String("notebook", name), zap.Error(err))
			continue
		}
		w.log.Info("rebuilt notebook",
			zap.String("category", category), zap.String("notebook", name))
	}
}
