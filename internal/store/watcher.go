package store

import (
	"context"
	"log"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchSettings hot-reloads the settings store when settings.json is edited
// on disk (admins hand-edit it between games). Reload is debounced because
// editors fire several write events per save. Runs until ctx is cancelled.
func WatchSettings(ctx context.Context, settings *SettingsStore) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory, not the file: temp+rename writes replace the inode
	dir := filepath.Dir(settings.Path())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	target := filepath.Base(settings.Path())
	log.Printf("✅ Settings watcher active on %s", settings.Path())

	go func() {
		defer watcher.Close()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("❌ [SETTINGS WATCHER] Panic recovered: %v\n%s", r, debug.Stack())
			}
		}()

		var reloadTimer *time.Timer
		for {
			select {
			case <-ctx.Done():
				log.Println("Settings watcher shutting down")
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				// Debounce bursts of write events into one reload
				if reloadTimer != nil {
					reloadTimer.Stop()
				}
				reloadTimer = time.AfterFunc(500*time.Millisecond, func() {
					if err := settings.reload(); err != nil {
						log.Printf("⚠️ Settings reload failed: %v", err)
						return
					}
					log.Printf("🔄 Settings reloaded from disk")
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️ Settings watcher error: %v", err)
			}
		}
	}()

	return nil
}
