// Package logging provides the structured logging abstraction used by the
// engine, the HTTP API and the CLI. The concrete backend is logrus.
package logging

// Logger defines the interface for structured logging throughout the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field)                 {}
func (NopLogger) Info(string, ...Field)                  {}
func (NopLogger) Warn(string, ...Field)                  {}
func (NopLogger) Error(string, ...Field)                 {}
func (n NopLogger) WithError(error) Logger               { return n }
func (n NopLogger) WithField(string, interface{}) Logger { return n }
func (n NopLogger) WithFields(...Field) Logger           { return n }
