package config

import "time"

// CurrentVersion is the config file version written by this build.
const CurrentVersion = 1

// Defaults applied when a field is missing.
const (
	DefaultDiscoverTimeout = 5 // seconds
	DefaultCardWidth       = 30
	DefaultGap             = 2
)

// Config is the user configuration file.
// Passwords are never stored here.
type Config struct {
	Version         int                 `yaml:"version"`
	CatalogPath     string              `yaml:"catalog_path,omitempty"`     // Local catalog file (empty = built-in)
	LibraryURL      string              `yaml:"library_url,omitempty"`      // Library server to load from
	DiscoverTimeout int                 `yaml:"discover_timeout,omitempty"` // mDNS scan time in seconds
	DefaultUsername string              `yaml:"default_username,omitempty"` // Pre-filled on the login screen
	Layout          *Layout             `yaml:"layout,omitempty"`
	Libraries       map[string]*Library `yaml:"libraries,omitempty"` // Keyed by mDNS instance name
}

// Layout sizes the card row in terminal cells.
type Layout struct {
	CardWidth int `yaml:"card_width"`
	Gap       int `yaml:"gap"`
}

// Library remembers a library server the user connected to.
type Library struct {
	URL      string    `yaml:"url"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// New returns a configuration with defaults.
func New() *Config {
	return &Config{
		Version:         CurrentVersion,
		DiscoverTimeout: DefaultDiscoverTimeout,
		Layout: &Layout{
			CardWidth: DefaultCardWidth,
			Gap:       DefaultGap,
		},
		Libraries: make(map[string]*Library),
	}
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	if c.DiscoverTimeout <= 0 {
		c.DiscoverTimeout = DefaultDiscoverTimeout
	}
	if c.Layout == nil {
		c.Layout = &Layout{CardWidth: DefaultCardWidth, Gap: DefaultGap}
	}
	if c.Layout.CardWidth <= 0 {
		c.Layout.CardWidth = DefaultCardWidth
	}
	if c.Layout.Gap < 0 {
		c.Layout.Gap = DefaultGap
	}
	if c.Libraries == nil {
		c.Libraries = make(map[string]*Library)
	}
}

// DiscoverDuration returns the scan timeout as a duration.
func (c *Config) DiscoverDuration() time.Duration {
	return time.Duration(c.DiscoverTimeout) * time.Second
}

// RememberLibrary records a library connection.
func (c *Config) RememberLibrary(name, url string) {
	if c.Libraries == nil {
		c.Libraries = make(map[string]*Library)
	}
	c.Libraries[name] = &Library{URL: url, LastSeen: time.Now().UTC()}
}

// ForgetLibrary removes a remembered library. It reports whether one was removed.
func (c *Config) ForgetLibrary(name string) bool {
	if _, ok := c.Libraries[name]; !ok {
		return false
	}
	delete(c.Libraries, name)
	return true
}
