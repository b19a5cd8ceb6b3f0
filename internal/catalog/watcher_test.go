package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nscripts:\n  - id: before\n"), 0o600))

	initial, err := LoadFile(path)
	require.NoError(t, err)
	source := NewSource(initial)

	w, err := NewWatcher(path, source)
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond

	reloaded := make(chan error, 4)
	w.OnReload = func(_ *Catalog, err error) { reloaded <- err }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("version: 1\nscripts:\n  - id: after\n  - id: later\n"), 0o600))

	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload the catalog")
	}
	assert.Equal(t, []string{"after", "later"}, source.Current().IDs())

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherKeepsSnapshotOnBadFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nscripts:\n  - id: keep\n"), 0o600))

	initial, err := LoadFile(path)
	require.NoError(t, err)
	source := NewSource(initial)

	w, err := NewWatcher(path, source)
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond

	reloaded := make(chan error, 4)
	w.OnReload = func(_ *Catalog, err error) { reloaded <- err }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("version: 9\n"), 0o600))

	select {
	case err := <-reloaded:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not attempt a reload")
	}
	assert.Equal(t, []string{"keep"}, source.Current().IDs())

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nscripts:\n  - id: stay\n"), 0o600))

	initial, err := LoadFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, NewSource(initial))
	require.NoError(t, err)
	w.Debounce = 10 * time.Millisecond

	reloaded := make(chan error, 1)
	w.OnReload = func(_ *Catalog, err error) { reloaded <- err }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o600))

	select {
	case <-reloaded:
		t.Fatal("watcher reloaded for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}
