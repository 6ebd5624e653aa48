package config

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger on w. Verbose lowers the level to debug;
// otherwise only warnings and errors are written.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Log writes the resolved settings at debug level.
func Log(cfg *Config, root string, logger *slog.Logger) {
	logger.Debug("Config: root", "value", root)
	if cfg.Root != "" && cfg.Root != root {
		logger.Debug("Config: root setting", "value", cfg.Root)
	}
	logger.Debug("Config: single_folder", "value", cfg.SingleFolder)
	logger.Debug("Config: search_field", "value", cfg.SearchField)
}
