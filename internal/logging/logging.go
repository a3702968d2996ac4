/*
Package logging provides the structured logger shared by the server and
every request handler: a thin wrapper around charmbracelet/log with a
leveled New() constructor.
*/
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charmbracelet/log.
type Logger struct {
	*log.Logger
}

// New builds a Logger at the given level ("debug", "info", "warn", "error").
func New(level string) *Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetLevel(parseLevel(level))
	return &Logger{Logger: l}
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// WithRequestID returns a child logger tagging every line with a request id.
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{Logger: l.With("request_id", id)}
}
