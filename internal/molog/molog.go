// Package molog provides the harness's injectable logger: a package-
// level logrus.Logger callers can override, defaulting to discarding
// output so embedding this library in a test binary never writes to
// stdout unless the caller opts in.
package molog

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.RWMutex
	logger  = newDefault()
)

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Default returns the current package-level logger.
func Default() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetDefault replaces the package-level logger, e.g. the CLI wiring its
// own logrus.Logger with a real output and a level set by --verbose.
func SetDefault(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Debugf logs at debug level on the current default logger.
func Debugf(format string, args ...any) {
	Default().Debugf(format, args...)
}

// WithField returns an entry on the current default logger, for
// call sites that attach structured fields around a sequence of calls.
func WithField(key string, value any) *logrus.Entry {
	return Default().WithField(key, value)
}
