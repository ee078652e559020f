package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
)

// Reloader is satisfied by *Loader.
type Reloader interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// Watcher reloads the catalog when its file changes. Editors often write a
// file in several steps, so events are debounced.
type Watcher struct {
	path     string
	reloader Reloader
	logger   *zap.Logger
	debounce time.Duration
}

// NewWatcher watches path and calls r.Load after each settled change.
func NewWatcher(path string, r Reloader, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		reloader: r,
		logger:   logger,
		debounce: 250 * time.Millisecond,
	}
}

// Run blocks until ctx is cancelled. The file's directory is watched rather
// than the file, so atomic replace-by-rename is seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching catalog file", zap.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))

		case <-timer.C:
			if _, err := w.reloader.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
				w.logger.Warn("reloading catalog", zap.String("path", w.path), zap.Error(err))
			}
		}
	}
}
