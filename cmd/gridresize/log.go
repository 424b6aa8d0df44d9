package main

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger returns the charm logger used as the daemon's slog handler, and
// the slog logger handed to every internal package.
func newLogger(level string) (*log.Logger, *slog.Logger) {
	charm := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           parseLevel(level),
		Prefix:          "gridresize",
	})
	return charm, slog.New(charm)
}

// parseLevel maps a config log_level to a charm level. Unknown values fall
// back to info.
func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warning", "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
