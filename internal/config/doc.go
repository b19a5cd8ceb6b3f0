// Package config manages the user configuration file for the premiere CLI.
//
// The file lives in the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/premiere/config.yaml (or ~/.config/premiere)
//   - macOS: ~/.config/premiere/config.yaml
//   - Windows: %LOCALAPPDATA%\premiere\config.yaml
//
// # File Format
//
//	version: 1
//	catalog_path: ~/scripts/catalog.yaml
//	library_url: http://studio.local:8080
//	discover_timeout: 5
//	default_username: produce1
//	layout:
//	  card_width: 30
//	  gap: 2
//	libraries:
//	  Studio Library:
//	    url: http://192.168.4.16:8080
//	    last_seen: 2026-10-17T09:12:00Z
//
// Command-line flags override every value. Passwords are never written to
// the file.
//
// # Atomic Saves
//
// Save writes to a temporary file and renames it into place, so a crash
// never leaves a truncated configuration behind.
package config
