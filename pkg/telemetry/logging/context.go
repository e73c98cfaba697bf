package logging

import (
	"context"
)

// Context keys for the per-request log fields the gateway carries
// through a request's lifetime.
type contextKey string

const (
	// RequestIDKey is the context key for the per-request correlation id.
	RequestIDKey contextKey = "request_id"

	// RouteKey is the context key for the matched route name.
	RouteKey contextKey = "route"

	// UpstreamKey is the context key for the upstream a request was
	// forwarded to.
	UpstreamKey contextKey = "upstream"

	// IntentKey is the context key for the classified intent tag.
	IntentKey contextKey = "intent"

	// ConsciousnessLevelKey is the context key for the consciousness
	// level in effect when the request was handled.
	ConsciousnessLevelKey contextKey = "consciousness_level"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithRoute adds the matched route name to the context.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, RouteKey, route)
}

// GetRoute retrieves the route name from the context.
func GetRoute(ctx context.Context) string {
	if v, ok := ctx.Value(RouteKey).(string); ok {
		return v
	}
	return ""
}

// WithUpstream adds the forwarding upstream's name to the context.
func WithUpstream(ctx context.Context, upstream string) context.Context {
	return context.WithValue(ctx, UpstreamKey, upstream)
}

// GetUpstream retrieves the upstream name from the context.
func GetUpstream(ctx context.Context) string {
	if v, ok := ctx.Value(UpstreamKey).(string); ok {
		return v
	}
	return ""
}

// WithIntent adds the classified intent tag to the context.
func WithIntent(ctx context.Context, intent string) context.Context {
	return context.WithValue(ctx, IntentKey, intent)
}

// GetIntent retrieves the intent tag from the context.
func GetIntent(ctx context.Context) string {
	if v, ok := ctx.Value(IntentKey).(string); ok {
		return v
	}
	return ""
}

// WithConsciousnessLevel adds the active consciousness level to the context.
func WithConsciousnessLevel(ctx context.Context, level string) context.Context {
	return context.WithValue(ctx, ConsciousnessLevelKey, level)
}

// GetConsciousnessLevel retrieves the consciousness level from the context.
func GetConsciousnessLevel(ctx context.Context) string {
	if v, ok := ctx.Value(ConsciousnessLevelKey).(string); ok {
		return v
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(TraceIDKey).(string); ok {
		return v
	}
	return ""
}

// extractContextFields extracts the gateway's per-request fields from ctx
// for inclusion in a log line, in a slice suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if v := GetRequestID(ctx); v != "" {
		fields = append(fields, "request_id", v)
	}
	if v := GetRoute(ctx); v != "" {
		fields = append(fields, "route", v)
	}
	if v := GetUpstream(ctx); v != "" {
		fields = append(fields, "upstream", v)
	}
	if v := GetIntent(ctx); v != "" {
		fields = append(fields, "intent", v)
	}
	if v := GetConsciousnessLevel(ctx); v != "" {
		fields = append(fields, "consciousness_level", v)
	}
	if v := GetTraceID(ctx); v != "" {
		fields = append(fields, "trace_id", v)
	}

	return fields
}

// ContextLogger is a logger that automatically includes context fields.
type ContextLogger struct {
	logger *Logger
	ctx    context.Context
}

// NewContextLogger creates a logger that automatically includes context fields.
func NewContextLogger(logger *Logger, ctx context.Context) *ContextLogger {
	return &ContextLogger{
		logger: logger.WithContext(ctx),
		ctx:    ctx,
	}
}

func (cl *ContextLogger) Debug(msg string, args ...any) { cl.logger.DebugContext(cl.ctx, msg, args...) }
func (cl *ContextLogger) Info(msg string, args ...any)  { cl.logger.InfoContext(cl.ctx, msg, args...) }
func (cl *ContextLogger) Warn(msg string, args ...any)  { cl.logger.WarnContext(cl.ctx, msg, args...) }
func (cl *ContextLogger) Error(msg string, args ...any) { cl.logger.ErrorContext(cl.ctx, msg, args...) }

// With creates a new context logger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{logger: cl.logger.With(args...), ctx: cl.ctx}
}
