package logging

import (
	"context"
	"maps"
	"strings"
)

type contextKey string

const (
	contextFieldsKey contextKey = "blog.logging.fields"
	fieldRequestID              = "request_id"
)

// ContextWithFields returns a context carrying structured logging fields that
// providers merge into subsequent entries. Fields already on the context are
// kept unless overwritten by the new values.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields returns a copy of the logging fields stored on the context.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// ContextWithRequestID tags the context with the id of the inbound request.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{fieldRequestID: id})
}

// RequestID returns the request id attached by ContextWithRequestID.
func RequestID(ctx context.Context) string {
	if id, ok := ContextFields(ctx)[fieldRequestID].(string); ok {
		return id
	}
	return ""
}
