// Package logging provides the leveled logger shared by the inklings
// binaries. It satisfies ink.Logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ParseLevel parses a string log level (case-insensitive). Unknown values
// fall back to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Logger provides leveled logging on top of charmbracelet/log
type Logger struct {
	l *log.Logger
}

// NewLogger creates a logger writing to w at the given level. A nil writer
// means stderr.
func NewLogger(level string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		l: log.NewWithOptions(w, log.Options{
			Level:           ParseLevel(level),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
		}),
	}
}

// WithPrefix returns a logger whose lines start with prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{l: l.l.WithPrefix(prefix)}
}

// Level returns the configured level name.
func (l *Logger) Level() string {
	return l.l.GetLevel().String()
}

// Debugf logs a debug message
func (l *Logger) Debugf(format string, v ...any) { l.l.Debugf(format, v...) }

// Infof logs an info message
func (l *Logger) Infof(format string, v ...any) { l.l.Infof(format, v...) }

// Warnf logs a warning message
func (l *Logger) Warnf(format string, v ...any) { l.l.Warnf(format, v...) }

// Errorf logs an error message
func (l *Logger) Errorf(format string, v ...any) { l.l.Errorf(format, v...) }

// Fatalf logs an error message and exits
func (l *Logger) Fatalf(format string, v ...any) { l.l.Fatalf(format, v...) }
