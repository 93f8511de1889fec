package logger

import corelogger "github.com/kilianp07/bikecast/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// New returns a Logger for the given component using the options set by
// Configure. APP_ENV=dev switches to console output.
func New(component string) Logger {
	return NewZerologLogger(component)
}
