// Package logging provides the small logging capability the storage engine
// consumes. Callers that want their own observability stack implement
// Logger; everything else gets the bracket-tagged stdlib logger the rest of
// this codebase uses.
package logging

import (
	"log"
	"os"
)

// Logger is the capability the engine logs through. It intentionally has no
// dependency on any particular logging library so host applications can
// bridge it to whatever they already use.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// stdLogger wraps the standard library logger and tags every line with a
// bracketed component name, matching the on-disk-engine convention of
// "[TAG] message" lines.
type stdLogger struct {
	tag    string
	logger *log.Logger
}

// New returns the default Logger, tagged with component. Component is
// rendered as "[COMPONENT]" ahead of every message.
func New(component string) Logger {
	return &stdLogger{
		tag:    "[" + component + "] ",
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *stdLogger) Debugf(format string, args ...any) {
	l.logger.Printf(l.tag+"DEBUG "+format, args...)
}

func (l *stdLogger) Warnf(format string, args ...any) {
	l.logger.Printf(l.tag+"WARN "+format, args...)
}

func (l *stdLogger) Errorf(format string, args ...any) {
	l.logger.Printf(l.tag+"ERROR "+format, args...)
}

// Noop discards every message. Useful for tests that don't want log noise.
type Noop struct{}

func (Noop) Debugf(string, ...any) {}
func (Noop) Warnf(string, ...any)  {}
func (Noop) Errorf(string, ...any) {}
