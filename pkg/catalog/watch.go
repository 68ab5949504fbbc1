package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/fontshelf/pkg/debounce"
)

// DefaultWatchDelay is how long Watch waits for a burst of file events to
// settle before reloading.
const DefaultWatchDelay = 200 * time.Millisecond

// Watch calls onChange with a freshly loaded catalog whenever the file at path
// changes. Load errors are logged and skipped; the previous catalog stays in
// effect. Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file itself, because most
// editors save by writing a temporary file and renaming it over the original.
func Watch(ctx context.Context, path string, delay time.Duration, logger *log.Logger, onChange func(Catalog)) error {
	if logger == nil {
		logger = log.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	src := FileSource{Path: abs}
	reload := debounce.New(delay, func(op fsnotify.Op) {
		c, err := Load(ctx, src, logger)
		if err != nil {
			logger.Warn("catalog changed but could not be loaded", "path", abs, "op", op.String(), "err", err)
			return
		}
		logger.Info("catalog reloaded", "path", abs, "fonts", c.Len())
		onChange(c)
	})
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				logger.Debug("catalog file event", "op", ev.Op.String())
				reload.Call(ev.Op)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", "err", err)
		}
	}
}
