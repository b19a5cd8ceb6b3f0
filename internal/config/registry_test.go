package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		dir, err := GetConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/xdg", "premiere"), dir)
		return
	}

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Contains(t, dir, "premiere")
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
}

func TestNew(t *testing.T) {
	cfg := New()
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultDiscoverTimeout, cfg.DiscoverTimeout)
	assert.Equal(t, 5*time.Second, cfg.DiscoverDuration())
	require.NotNil(t, cfg.Layout)
	assert.Equal(t, Layout{CardWidth: 30, Gap: 2}, *cfg.Layout)
	assert.NotNil(t, cfg.Libraries)
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := New()
	cfg.CatalogPath = "/srv/scripts.yaml"
	cfg.LibraryURL = "http://studio.local:8080"
	cfg.DefaultUsername = "produce1"
	cfg.Layout.CardWidth = 40
	cfg.RememberLibrary("Studio Library", "http://192.168.4.16:8080")

	require.NoError(t, cfg.SaveTo(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file left behind")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Premiere Configuration File"))
	assert.NotContains(t, strings.ToLower(string(data)), "password:")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.CatalogPath, loaded.CatalogPath)
	assert.Equal(t, cfg.LibraryURL, loaded.LibraryURL)
	assert.Equal(t, "produce1", loaded.DefaultUsername)
	assert.Equal(t, 40, loaded.Layout.CardWidth)
	require.Contains(t, loaded.Libraries, "Studio Library")
	assert.Equal(t, "http://192.168.4.16:8080", loaded.Libraries["Studio Library"].URL)
}

func TestLoadFilePartialAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nlibrary_url: http://x:1\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://x:1", cfg.LibraryURL)
	assert.Equal(t, DefaultDiscoverTimeout, cfg.DiscoverTimeout)
	assert.Equal(t, Layout{CardWidth: DefaultCardWidth, Gap: DefaultGap}, *cfg.Layout)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "version: [", "failed to parse config file"},
		{"wrong version", "version: 2\n", "unsupported config version: 2 (expected 1)"},
		{"missing version", "library_url: x\n", "unsupported config version: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))
			_, err := LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLibraries(t *testing.T) {
	cfg := &Config{}
	cfg.RememberLibrary("A", "http://a:1")
	assert.WithinDuration(t, time.Now(), cfg.Libraries["A"].LastSeen, time.Second)

	assert.True(t, cfg.ForgetLibrary("A"))
	assert.False(t, cfg.ForgetLibrary("A"))
}

func TestCreateDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, CreateDefaultFile(path))

	err := CreateDefaultFile(path)
	assert.ErrorContains(t, err, "already exists")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCardWidth, cfg.Layout.CardWidth)
}
