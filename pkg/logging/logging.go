// Package logging provides the small Logger contract the rest of the module
// depends on, backed by logrus.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the printf-style logging seam components accept through their
// WithLogger options.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Option configures the logrus instance created by New.
type Option func(*logrus.Logger)

// WithLevel sets the minimum level. Unknown names fall back to info.
func WithLevel(level string) Option {
	return func(l *logrus.Logger) {
		l.SetLevel(ParseLevel(level))
	}
}

// WithOutput redirects log output.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		if w != nil {
			l.SetOutput(w)
		}
	}
}

// WithJSON switches to the logrus JSON formatter.
func WithJSON() Option {
	return func(l *logrus.Logger) {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
}

// New returns a Logger that tags every entry with the component name.
func New(name string, options ...Option) Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(logrus.InfoLevel)
	for _, opt := range options {
		if opt != nil {
			opt(base)
		}
	}
	return FromLogrus(base, name)
}

// FromLogrus adapts an existing logrus logger or entry.
func FromLogrus(l logrus.FieldLogger, name string) Logger {
	if l == nil {
		return Nop()
	}
	if name = strings.TrimSpace(name); name != "" {
		return &logrusLogger{entry: l.WithField("component", name)}
	}
	return &logrusLogger{entry: l.WithFields(logrus.Fields{})}
}

// ParseLevel maps a level name onto logrus levels, defaulting to info.
func ParseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

// Nop discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
