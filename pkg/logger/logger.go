// Package logger builds the structured logger shared by the service components.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/phuslu/log"
)

// New returns a logger writing to stderr. Format "console" produces
// human-readable lines, anything else JSON.
func New(level, format string) *log.Logger {
	return NewWithWriter(level, format, os.Stderr)
}

func NewWithWriter(level, format string, w io.Writer) *log.Logger {
	logger := &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: time.RFC3339,
		Writer:     &log.IOWriter{Writer: w},
	}
	if format == "console" {
		logger.Writer = &log.ConsoleWriter{Writer: w}
	}
	return logger
}

// Discard returns a logger that drops every event. Used by tests.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}
