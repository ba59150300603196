package observability

import "context"

// Tracer creates spans and moves them in and out of a context.Context.
// The context is the only carrier of the "current" span: there is no
// goroutine-local state.
type Tracer interface {
	// Start creates a new span as a child of the span current in ctx and
	// returns a derived context in which the new span is current.
	Start(ctx context.Context, spanName string, opts ...SpanOption) (context.Context, Span)

	// SpanFromContext returns the span current in ctx. It never returns nil;
	// when no span is active the returned span has an invalid SpanContext.
	SpanFromContext(ctx context.Context) Span

	// ContextWithSpan returns a copy of ctx in which span is current.
	ContextWithSpan(ctx context.Context, span Span) context.Context
}
