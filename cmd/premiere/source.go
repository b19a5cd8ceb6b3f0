package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/browser/tui"
	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/client"
	"github.com/muurk/premiere/internal/config"
	"github.com/muurk/premiere/internal/logging"
)

// catalogSource is the catalog chosen from flags and config, plus an
// optional stream of reloads.
type catalogSource struct {
	Catalog *catalog.Catalog
	Label   string
	Updates <-chan *catalog.Catalog

	close func()
}

// Close stops following the source.
func (s *catalogSource) Close() {
	if s.close != nil {
		s.close()
	}
}

// resolveLocation picks the library URL or catalog path; flags win over
// config. At most one of the results is non-empty.
func resolveLocation(cfg *config.Config, flagURL, flagPath string) (url, path string) {
	switch {
	case flagURL != "":
		return flagURL, ""
	case flagPath != "":
		return "", flagPath
	case cfg.LibraryURL != "":
		return cfg.LibraryURL, ""
	default:
		return "", cfg.CatalogPath
	}
}

// openSource loads the catalog. With follow set, library feeds and local
// file changes are streamed until ctx is cancelled or Close is called.
func openSource(ctx context.Context, cfg *config.Config, follow bool) (*catalogSource, error) {
	url, path := resolveLocation(cfg, libraryURL, catalogPath)

	switch {
	case url != "" && follow:
		ctx, cancel := context.WithCancel(ctx)
		cat, updates, err := tui.ConnectLibrary(ctx, url)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to load library %s: %s", url, client.ShortMessage(err))
		}
		return &catalogSource{Catalog: cat, Label: url, Updates: updates, close: cancel}, nil

	case url != "":
		cat, err := client.New(url).FetchCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load library %s: %s", url, client.ShortMessage(err))
		}
		return &catalogSource{Catalog: cat, Label: url}, nil

	case path != "":
		cat, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		src := &catalogSource{Catalog: cat, Label: path}
		if follow {
			src.Updates, src.close = watchFile(ctx, path, cat)
		}
		return src, nil

	default:
		return &catalogSource{Catalog: catalog.Default(), Label: "built-in catalog"}, nil
	}
}

// watchFile follows a local catalog file. When the watcher cannot start the
// catalog is still shown, just not reloaded.
func watchFile(ctx context.Context, path string, cat *catalog.Catalog) (<-chan *catalog.Catalog, func()) {
	source := catalog.NewSource(cat)
	w, err := catalog.NewWatcher(path, source)
	if err != nil {
		logging.Warn("Catalog reload disabled", zap.String("path", path), zap.Error(err))
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	updates, unsubscribe := source.Subscribe()
	go func() {
		if err := w.Run(ctx); err != nil {
			logging.Warn("Catalog watcher stopped", zap.Error(err))
		}
	}()

	return updates, func() {
		cancel()
		unsubscribe()
	}
}
