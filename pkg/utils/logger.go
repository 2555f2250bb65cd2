package utils

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

// LogOptions controls how InitLogger builds the process logger.
type LogOptions struct {
	Level  string // debug, info, warn, error
	Format string // json or text
	Output io.Writer
}

// InitLogger installs the process-wide logger. Calling it more than once
// replaces the previous logger.
func InitLogger(opts ...LogOptions) {
	var o LogOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(o.Level)}
	var h slog.Handler
	if strings.EqualFold(o.Format, "json") {
		h = slog.NewJSONHandler(o.Output, handlerOpts)
	} else {
		h = slog.NewTextHandler(o.Output, handlerOpts)
	}

	l := slog.New(h)
	logger.Store(l)
	slog.SetDefault(l)
}

// GetLogger returns the process logger, initializing a text logger at info
// level on first use.
func GetLogger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	logger.CompareAndSwap(nil, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	return logger.Load()
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
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
