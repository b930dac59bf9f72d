package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs the default logger from LOG_LEVEL (debug, info, warn,
// error) and LOG_FORMAT (text or json).
func InitLogger() {
	slog.SetDefault(slog.New(newLogHandler(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))))
}

func newLogHandler(w io.Writer, level, format string) slog.Handler {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
