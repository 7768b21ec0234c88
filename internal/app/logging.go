package app

import (
	"io"
	"log/slog"
	"os"
)

// SetupLogging installs a text slog handler on w as the default logger.
// verbose forces debug level regardless of the configured level.
func SetupLogging(w io.Writer, level string, verbose bool) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
	return logger, nil
}

// OpenLog opens the project log file for appending, creating .kntags/log/
// if needed. The caller closes it.
func (p *Paths) OpenLog() (*os.File, error) {
	if err := os.MkdirAll(p.LogDir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(p.Log, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
