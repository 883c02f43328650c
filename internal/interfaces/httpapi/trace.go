package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	apiTracer = otel.Tracer("teamsheet/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// Only handlers and token verification get their own spans; the remaining
// middleware is covered by the otelhttp server span.
var tracedSpanPrefixes = []string{"httpapi.Handler.", "httpapi.RequireAuth"}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		// Filtered routes (/healthz, /metrics) carry no parent span.
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func shouldCreateHTTPAPISpan(name string) bool {
	for _, prefix := range tracedSpanPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
