package types

// Logger defines methods for structured logging.
//
// The method set matches zap.SugaredLogger's *w family, so a sugared zap
// logger (or any structured logger with the same shape) can be passed in
// directly. All methods take alternating key-value pairs.
type Logger interface {
	// Debug logs a message at DebugLevel with the given key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at InfoLevel with the given key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at WarnLevel with the given key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at ErrorLevel with the given key-value pairs.
	Error(msg string, keysAndValues ...any)

	// Fatal logs a message at FatalLevel, then calls os.Exit(1) even if
	// logging at FatalLevel is disabled.
	Fatal(msg string, keysAndValues ...any)
}
