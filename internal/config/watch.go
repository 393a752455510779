package config

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path and calls onChange with the freshly
// parsed config every time it is rewritten, until ctx is cancelled. The
// containing directory is watched rather than the file itself so editors and
// tools that replace the file via rename are still seen.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Config)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			cfg, err := LoadPath(path)
			if err != nil {
				// A parse failure keeps the previous config active.
				var parseErr *ParseError
				if errors.As(err, &parseErr) {
					logger.Warn("config reload skipped, file does not parse", "path", path, "error", err)
				}
				continue
			}
			logger.Info("config reloaded", "path", path)
			onChange(cfg)

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; keep watching.
		}
	}
}
