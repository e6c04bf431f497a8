// Package watcher notices edits of the configuration file.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultWindow is the quiet period after the last event before onChange runs.
const DefaultWindow = 200 * time.Millisecond

var _ ports.Watcher = (*Watcher)(nil)

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	Logger ports.Logger
	Window time.Duration
}

// New creates a Watcher with the default window.
func New(logger ports.Logger) *Watcher {
	return &Watcher{Logger: logger, Window: DefaultWindow}
}

// Watch calls onChange after path is written, created or replaced, until ctx
// is done. The parent directory is watched so editors that save through a
// rename are still seen.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatcherFailed.Error())
	}
	defer fsw.Close() //nolint:errcheck // Best effort close in defer

	target := filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "path", target)
	}

	window := w.Window
	if window <= 0 {
		window = DefaultWindow
	}
	debouncer := NewDebouncer(window, func([]string) { onChange() })
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debouncer.Add(event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if w.Logger != nil {
				w.Logger.Warn("config watcher: " + err.Error())
			}
		}
	}
}
