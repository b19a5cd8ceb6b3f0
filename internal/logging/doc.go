// Package logging provides structured logging for Premiere.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used by the catalog service and the terminal browser.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: WebSocket payloads, file watcher events, animation timing
//   - Info: Requests, connections, catalog reloads, login submissions
//   - Warn: Non-fatal issues (bad catalog reloads, dropped feed clients)
//   - Error: Startup failures and unexpected errors
//
// # Silent by Default
//
// Without a level (flag or PREMIERE_LOG_LEVEL) the logger is a no-op. The
// terminal browser owns stdout, so it logs to a file via InitializeFile:
//
//	if err := logging.InitializeFile("debug", "/tmp/premiere.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
//	logging.Info("Catalog reloaded",
//	    zap.String("path", path),
//	    zap.Int("scripts", c.Len()),
//	)
//
// Credentials are never logged. LogLogin records the username and whether a
// password was supplied, nothing more.
package logging
