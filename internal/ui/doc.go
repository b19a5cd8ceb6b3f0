// Package ui renders styled, non-interactive terminal output for the
// premiere CLI: command headers, result boxes, script tables and script
// pages.
//
// Unlike the interactive browser these components print once and return.
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Script Library", "premiere list", ui.F("Source", "built-in"))
//	p.PrintCatalog(cat)
//
// Logging is controlled by the PREMIERE_LOG_LEVEL environment variable. When
// unset, zap logging is silent so only the curated output is shown.
package ui
