// Package log builds the slog loggers used by sitecorpus.
//
// Terminal output goes through github.com/charmbracelet/log, which implements
// slog.Handler. Every logger is wrapped in a SecureHandler so that cookies,
// authorization headers and URL passwords taken from site configuration never
// reach the log output.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("progress", "visited", 3, "queued", 7, "sections", 2)
package log
