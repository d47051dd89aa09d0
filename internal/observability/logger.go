package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrRoute   = "route"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
)

type routeKey struct{}

// WithRoute returns ctx carrying the HTTP route pattern being served.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// RouteFromContext returns the route set by WithRoute.
func RouteFromContext(ctx context.Context) (string, bool) {
	route, ok := ctx.Value(routeKey{}).(string)

	return route, ok
}

// TracingHandler is an [slog.Handler] that stamps each record with the
// span and route found in its context. Service metadata is attached once
// at construction so it stays top-level under WithGroup.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner with request context and service metadata.
func NewTracingHandler(inner slog.Handler, service, env string, mode AppMode) *TracingHandler {
	meta := []slog.Attr{slog.String(attrService, service), slog.String(attrMode, string(mode))}
	if env != "" {
		meta = append(meta, slog.String(attrEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(meta)}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle adds the span and route, then delegates.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(slog.String(attrTraceID, sc.TraceID().String()), slog.String(attrSpanID, sc.SpanID().String()))
	}

	if route, ok := RouteFromContext(ctx); ok {
		record.AddAttrs(slog.String(attrRoute, route))
	}

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
