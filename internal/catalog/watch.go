package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/charmbracelet/shelf/internal/log"
	"github.com/fsnotify/fsnotify"
)

// ReloadedMsg carries a catalog reloaded from disk.
type ReloadedMsg struct {
	Catalog *Catalog
	Err     error
}

const reloadDebounce = 150 * time.Millisecond

// Watch calls fn with a freshly loaded catalog every time the file at path
// changes, until ctx is done. The parent directory is watched so editors that
// replace the file on save keep working.
func Watch(ctx context.Context, path string, fn func(ReloadedMsg)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	go func() {
		defer log.RecoverPanic("catalog-watcher", nil)
		defer watcher.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDebounce)
				} else {
					timer.Reset(reloadDebounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				cat, err := Load(abs)
				if err != nil {
					slog.Warn("Failed to reload catalog", "path", abs, "error", err)
				} else {
					slog.Info("Reloaded catalog", "path", abs, "products", len(cat.Products))
				}
				fn(ReloadedMsg{Catalog: cat, Err: err})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Catalog watcher error", "error", err)
			}
		}
	}()
	return nil
}
