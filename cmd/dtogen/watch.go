package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce collapses the burst of events an editor emits on save.
const debounce = 100 * time.Millisecond

type modelWatcher struct {
	path     string
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// newModelWatcher watches the directory of the model file, so that editors
// replacing the file on save are still observed.
func newModelWatcher(model string, log *zap.Logger) (*modelWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	path, err := filepath.Abs(model)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolve model path: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &modelWatcher{path: path, log: log, watcher: w, debounce: debounce}, nil
}

// Run calls regenerate after each change of the model file, until ctx is
// done. Generation errors are logged and do not stop the watch.
func (w *modelWatcher) Run(ctx context.Context, regenerate func(context.Context) error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(ev) {
				continue
			}
			w.log.Debug("model changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			start := time.Now()
			if err := regenerate(ctx); err != nil {
				w.log.Error("regenerate", zap.Error(err))
				continue
			}
			w.log.Info("regenerated", zap.Duration("took", time.Since(start)))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch model", zap.Error(err))
		}
	}
}

func (w *modelWatcher) matches(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	path, err := filepath.Abs(ev.Name)
	return err == nil && path == w.path
}

// Close stops watching.
func (w *modelWatcher) Close() error {
	return w.watcher.Close()
}
