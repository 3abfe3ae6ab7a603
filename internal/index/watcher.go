package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/notepad/internal/storage"
)

// settleDelay debounces bursts of file events before the index is reconciled.
// Saves made through the note service index themselves well within it, so
// they are not reported as external changes.
const settleDelay = 150 * time.Millisecond

// EventCallback is called after a watcher-driven index change.
// kind is ChangeUpdated or ChangeDeleted.
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the storage directory and reconciles
// the index whenever the named note file changes, until ctx is cancelled.
// cb (if non-nil) is called for changes that did not come from an indexed save.
func Watch(ctx context.Context, db NoteIndex, store storage.Provider, name string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// The directory is watched rather than the file: atomic saves replace
	// the file, which would drop a watch on the file itself.
	if err := w.Add(store.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", store.Root()), slog.String("file", name))

	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settleDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			kind, syncErr := Sync(db, store, name, logger)
			if syncErr != nil {
				logger.Warn("watcher: sync failed", slog.String("path", name), slog.String("error", syncErr.Error()))
				continue
			}
			if kind == ChangeNone {
				continue
			}
			logger.Debug("watcher: external change", slog.String("path", name), slog.String("op", kind))
			if cb != nil {
				cb(kind, name)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
