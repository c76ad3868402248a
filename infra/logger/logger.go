package logger

import corelogger "github.com/kilianp07/kitflow/core/logger"

// Logger aliases the core interface so callers wiring components only
// import this package.
type Logger = corelogger.Logger

// NopLogger discards everything, used in tests.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns the zerolog-backed Logger for the given component. Output
// format and level come from the APP_ENV and LOG_LEVEL variables.
func New(component string) Logger {
	return NewZerologLogger(component)
}
