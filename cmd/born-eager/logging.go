package main

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/born-ml/eager/internal/envconfig"
)

// newLogger returns a text logger writing to stderr, or to a size-rotated
// logFile when one is given.
func newLogger(stderr io.Writer, logFile string, debug bool) *slog.Logger {
	level := envconfig.LogLevel()
	if debug && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	w := stderr
	if logFile != "" {
		w = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
