// Package logx is the ambient logging facility shared by the solver
// pipeline and the CLI. It keeps the teacher's "::" progress-narration
// convention (see symexec/symexec.go) but backs it with logrus so warnings
// and fatal diagnostics carry real severity and structured fields.
package logx

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	std      = newLogger()
	warnOnce sync.Map // map[string]struct{}, keyed by warning kind
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	l.SetOutput(os.Stderr)
	return l
}

// Info narrates solve progress in the "::" convention.
func Info(msg string, args ...any) {
	std.Infof(":: "+msg, args...)
}

// Warnf logs a recoverable condition on every call; WarnOnce is the variant
// that logs once per kind.
func Warnf(msg string, args ...any) {
	std.Warnf(msg, args...)
}

// WarnOnce logs a warning the first time it is seen for a given kind (e.g.
// one warning per unsupported SMT-LIB2 command name) and is silent on
// subsequent calls with the same kind.
func WarnOnce(kind string, msg string, args ...any) {
	if _, seen := warnOnce.LoadOrStore(kind, struct{}{}); seen {
		return
	}
	std.Warnf(msg, args...)
}

// Fatalf logs a fatal diagnostic line. Callers are expected to translate
// this into a non-zero process exit; Fatalf itself does not exit so that
// library callers (as opposed to cmd/volce) can recover.
func Fatalf(msg string, args ...any) {
	std.Errorf(msg, args...)
}

// WithField returns a logrus entry for structured stats logging (e.g. end
// of solve: bunch count, vol_calls, vol_reuses).
func WithField(key string, value any) *logrus.Entry {
	return std.WithField(key, value)
}
