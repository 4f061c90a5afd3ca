package logging

import (
	"context"
	"maps"
)

type contextKey struct{}

var fieldsKey contextKey

// ContextWithFields stores logging fields on ctx, merged over any fields
// already present. Loggers that honour WithContext append them to entries.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey, merged)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(fieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
