// Package logger provides structured, service-scoped logging for the engine.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry pre-tagged with the owning service's name.
// Services embed or hold one and use the logrus chaining API directly:
//
//	log.WithField("user_id", userID).Info("cosmetic purchased")
type Logger struct {
	*logrus.Entry
}

// New creates a logger for the named service at the given level.
func New(service string, level logrus.Level) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(level)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{Entry: base.WithField("service", service)}
}

// NewDefault creates a logger for the named service at Info level.
func NewDefault(service string) *Logger {
	return New(service, logrus.InfoLevel)
}

// NewNop creates a logger that discards everything. Used in tests that
// assert on state rather than output.
func NewNop() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{Entry: logrus.NewEntry(base)}
}

// Named returns a child logger tagged with a sub-component name.
func (l *Logger) Named(component string) *Logger {
	return &Logger{Entry: l.Entry.WithField("component", component)}
}

// ParseLevel converts a config string into a logrus level, falling back to
// Info on anything unrecognised.
func ParseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
