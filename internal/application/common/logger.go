package common

import "context"

// Logger is the application-side logging port. Engines report phase progress
// through it; the CLI installs a stderr implementation and tests leave it out
// entirely, falling back to the no-op.
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

type contextKey int

const loggerKey contextKey = iota

// WithLogger returns a context carrying the logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger, or a no-op when none was installed.
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Log(string, string, map[string]interface{}) {}
