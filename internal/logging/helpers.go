package logging

import (
	"maps"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// WithFields attaches fields when the logger implements FieldsLogger and
// returns the logger unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// Ensure returns logger or a no-op logger when nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return noopLogger{}
	}
	return logger
}
