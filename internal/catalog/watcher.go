package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/logging"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading. Editors commonly emit several events per save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a catalog file into a Source whenever it changes on disk.
// A file that fails to parse is logged and the previous snapshot is kept.
type Watcher struct {
	path     string
	source   *Source
	watcher  *fsnotify.Watcher
	Debounce time.Duration

	// OnReload, when set, is called after every reload attempt.
	OnReload func(c *Catalog, err error)
}

// NewWatcher creates a watcher for path feeding source. The containing
// directory is watched so that atomic renames by editors are observed.
func NewWatcher(path string, source *Source) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	return &Watcher{
		path:     abs,
		source:   source,
		watcher:  fw,
		Debounce: DefaultDebounce,
	}, nil
}

// Run processes file events until ctx is cancelled. It always closes the
// underlying fsnotify watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	logging.Info("Watching catalog file", zap.String("path", w.path))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logging.Debug("Catalog file event",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Catalog watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	c, err := LoadFile(w.path)
	if err != nil {
		logging.Warn("Catalog reload failed, keeping previous catalog",
			zap.String("path", w.path),
			zap.Error(err),
		)
	} else {
		w.source.Replace(c)
		logging.Info("Catalog reloaded",
			zap.String("path", w.path),
			zap.Int("scripts", c.Len()),
		)
	}

	if w.OnReload != nil {
		w.OnReload(c, err)
	}
}
