// Package logging builds the charm loggers used across the pipeline.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w that filters at level. Timestamps are
// formatted as "HH:MM:SS.ms".
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ParseLevel maps a config string to a level. Unknown names yield info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Default returns the process-wide logger.
func Default() *log.Logger {
	return log.Default()
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *log.Logger) {
	if l != nil {
		log.SetDefault(l)
	}
}

// Stderr returns a logger writing to stderr at the named level.
func Stderr(level string) *log.Logger {
	return New(os.Stderr, ParseLevel(level))
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return Default()
}
