// Package logger configures the process-wide logrus logger used by the
// command line tools. Library packages do not log.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stderr)
}

// Configure sets the level (debug, info, warn, error) and format (text or
// json) of the logger. Unknown levels fall back to info.
func Configure(level, format string, out io.Writer) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(out)
	if strings.ToLower(format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// Verbose raises the level to debug.
func Verbose() {
	log.SetLevel(logrus.DebugLevel)
}

// WithField returns an entry carrying one structured field.
func WithField(key string, value any) *logrus.Entry {
	return log.WithField(key, value)
}

// WithFields returns an entry carrying several structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// WithError returns an entry carrying err.
func WithError(err error) *logrus.Entry {
	return log.WithError(err)
}

// Debug logs at debug level.
func Debug(args ...any) {
	log.Debug(args...)
}

// Info logs at info level.
func Info(args ...any) {
	log.Info(args...)
}

// Warn logs at warning level.
func Warn(args ...any) {
	log.Warn(args...)
}

// Error logs at error level.
func Error(args ...any) {
	log.Error(args...)
}

// Fatal logs at fatal level and exits the process.
func Fatal(args ...any) {
	log.Fatal(args...)
}
