// Package logging provides structured logging utilities for kaudit.
//
// It wraps the standard library slog package with project defaults:
// JSON output to stderr, environment-based log level configuration
// (LOG_LEVEL), module/version context injection, and source location
// tracking for debug logs.
//
// Setting the default logger (recommended):
//
//	logging.SetDefaultStructuredLoggerWithLevel("kaudit", version, level)
//	slog.Info("audit starting", "cluster", name)
//
// The LOG_LEVEL environment variable controls verbosity (DEBUG, INFO,
// WARN, ERROR; case-insensitive). If unset, INFO is used.
package logging
