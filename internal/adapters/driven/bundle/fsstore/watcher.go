package fsstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
	"github.com/lexra-labs/lexra-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.BundleWatcher = (*Watcher)(nil)

// Watcher notifies on republishes by watching the CURRENT pointer
// file. It watches the bundle directory rather than the file itself
// because publishing replaces the file by rename.
type Watcher struct {
	store *Store
}

// NewWatcher creates a watcher for the given store.
func NewWatcher(store *Store) *Watcher {
	return &Watcher{store: store}
}

// Watch blocks until the context is cancelled, invoking onChange
// whenever the CURRENT pointer is rewritten.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("watching %s: %w", w.store.Dir(), err)
	}

	logger.Debug("Watching %s for republishes", w.store.CurrentPath())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.isPublish(event) {
				continue
			}
			logger.Debug("Publish detected: %s", event)
			onChange()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// isPublish reports whether the event touched the CURRENT pointer.
// Publish renames a temp file over it, which arrives as Create (and
// on some platforms Rename or Write).
func (w *Watcher) isPublish(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != currentFile {
		return false
	}
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Rename)
}
