// Package logger provides the structured logger used across ric.
//
// It is a thin layer over logrus. Messages take a constant string followed by
// key/value pairs:
//
//	log.Info("Pulling image", "image", ref)
//
// Output goes to stderr so that it never interleaves with the contained
// command's stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is responsible for logging messages from code.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithFields(args ...any) Logger
}

type logger struct {
	entry *logrus.Entry
}

// New returns a Logger writing text records to w at the given level.
// The namespace is attached to every record under the "ns" key.
func New(ns string, w io.Writer, level string) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(ParseLevel(level))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableTimestamp: false,
	})

	return &logger{entry: l.WithField("ns", ns)}
}

// Default returns a Logger writing to stderr at the warn level.
func Default() Logger {
	return New("ric", os.Stderr, "warn")
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return New("ric", io.Discard, "error")
}

// ParseLevel maps a level name to a logrus level, defaulting to warn.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

func (l *logger) Debug(msg string, args ...any) {
	l.entry.WithFields(fields(args...)).Debug(msg)
}

func (l *logger) Info(msg string, args ...any) {
	l.entry.WithFields(fields(args...)).Info(msg)
}

func (l *logger) Warn(msg string, args ...any) {
	l.entry.WithFields(fields(args...)).Warn(msg)
}

// Error logs an error message.
//
// A single trailing argument is treated as the error value:
//
//	log.Error("Couldn't remove container", err)
func (l *logger) Error(msg string, args ...any) {
	var f logrus.Fields
	if len(args) == 1 {
		f = fields("error", args[0])
	} else {
		f = fields(args...)
	}

	l.entry.WithFields(f).Error(msg)
}

// WithFields returns a new Logger with the given key/value pairs attached to every record.
func (l *logger) WithFields(args ...any) Logger {
	return &logger{entry: l.entry.WithFields(fields(args...))}
}

// fields converts alternating key/value arguments to logrus.Fields.
// A dangling key is recorded under "extra".
func fields(args ...any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)

	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			f["extra"] = args[i]

			break
		}

		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}

		f[key] = args[i+1]
	}

	return f
}
