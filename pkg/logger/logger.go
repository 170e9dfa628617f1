package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a slog logger writing to stderr.
func New(level, format string) *slog.Logger {
	return slog.New(newHandler(os.Stderr, level, format))
}

// NewWithFile tees log output into a size-rotated file. An empty path behaves like New.
func NewWithFile(level, format, path string, maxSizeMB, maxBackups int) (*slog.Logger, io.Closer) {
	if path == "" {
		return New(level, format), io.NopCloser(nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     30,
		Compress:   false,
	}

	w := io.MultiWriter(os.Stderr, rotator)
	return slog.New(newHandler(w, level, format)), rotator
}

func newHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
