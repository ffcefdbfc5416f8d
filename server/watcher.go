package server

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the active document when its file is written by another
// process (the parent page's backend, a formatter, git). Only the directory
// of the active document is watched; it follows the document as the user
// switches files.
type Watcher struct {
	bridge   *Bridge
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
	dir     string
}

// NewWatcher creates a watcher for bridge. A nil logger disables logging.
func NewWatcher(bridge *Bridge, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		bridge:   bridge,
		watcher:  fw,
		logger:   logger,
		debounce: 200 * time.Millisecond,
		pending:  make(map[string]time.Time),
	}, nil
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case <-ticker.C:
			w.follow()
			w.flush()
		}
	}
}

// follow moves the watch to the active document's directory.
func (w *Watcher) follow() {
	path, ok := w.bridge.ActivePath()
	if !ok {
		return
	}
	dir := filepath.Dir(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if dir == w.dir {
		return
	}
	if w.dir != "" {
		_ = w.watcher.Remove(w.dir)
	}
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Debug("watch failed", zap.String("dir", dir), zap.Error(err))
		w.dir = ""
		return
	}
	w.dir = dir
	w.logger.Debug("watching directory", zap.String("dir", dir))
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	w.mu.Lock()
	w.pending[filepath.Clean(event.Name)] = time.Now()
	w.mu.Unlock()
}

// flush reloads files whose last event is older than the debounce window.
func (w *Watcher) flush() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		if _, err := w.bridge.Reload(path); err != nil {
			w.logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
		}
	}
}
