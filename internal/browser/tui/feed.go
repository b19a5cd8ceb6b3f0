package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/client"
	"github.com/muurk/premiere/internal/logging"
)

// catalogUpdateMsg carries a reloaded catalog snapshot.
type catalogUpdateMsg struct {
	catalog *catalog.Catalog
}

// feedClosedMsg is sent once the update channel is closed.
type feedClosedMsg struct{}

// ConnectFunc loads a library's catalog and returns a channel of later
// snapshots. The channel is closed when the feed ends.
type ConnectFunc func(ctx context.Context, baseURL string) (*catalog.Catalog, <-chan *catalog.Catalog, error)

// waitForCatalog blocks on the next snapshot from ch.
func waitForCatalog(ch <-chan *catalog.Catalog) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return catalogUpdateMsg{catalog: c}
	}
}

// ConnectLibrary fetches the catalog from the library at baseURL and keeps
// a feed subscription open until ctx is cancelled. Only the newest pending
// snapshot is kept.
func ConnectLibrary(ctx context.Context, baseURL string) (*catalog.Catalog, <-chan *catalog.Catalog, error) {
	c := client.New(baseURL)

	cat, err := c.FetchCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	updates := make(chan *catalog.Catalog, 1)
	go func() {
		defer close(updates)
		err := c.Subscribe(ctx, func(next *catalog.Catalog) {
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- next:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logging.Warn("Catalog feed ended", zap.String("library", baseURL), zap.Error(err))
		}
	}()

	return cat, updates, nil
}
