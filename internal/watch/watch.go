// Package watch blocks until the credential file becomes valid. Used by
// "mblaunch run --wait" so a user can fix the file in an editor while
// the launcher sits in the background.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"mblaunch/internal/config"
)

// debounce collapses editor write bursts (many editors write a temp
// file, then rename) into one re-validation.
const debounce = 200 * time.Millisecond

// UntilValid returns once the file at path validates, the context ends,
// or the watcher breaks. The parent directory is watched rather than the
// file itself so create/rename events are seen even when the file does
// not exist yet.
func UntilValid(ctx context.Context, logger *zap.Logger, path string) error {
	if raw, ok := config.Load(path); ok && config.Validate(raw) {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("waiting for credential file to become valid",
		zap.String("path", path))

	// Re-check after subscribing: the file may have become valid
	// between the first check and watcher.Add.
	if raw, ok := config.Load(path); ok && config.Validate(raw) {
		return nil
	}

	base := filepath.Base(path)
	var pending *time.Timer
	var pendingC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, open := <-watcher.Events:
			if !open {
				return fmt.Errorf("watcher closed")
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(debounce)
				pendingC = pending.C
			} else {
				if !pending.Stop() {
					<-pending.C
				}
				pending.Reset(debounce)
			}

		case <-pendingC:
			pending = nil
			pendingC = nil
			if raw, ok := config.Load(path); ok && config.Validate(raw) {
				logger.Info("credential file is now valid")
				return nil
			}
			logger.Debug("credential file changed but is still invalid")

		case err, open := <-watcher.Errors:
			if !open {
				return fmt.Errorf("watcher closed")
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}
