package otel

import (
	"context"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type otelTracer struct {
	tracer oteltrace.Tracer
}

func newOtelTracer(tracer oteltrace.Tracer) *otelTracer {
	return &otelTracer{tracer: tracer}
}

// Start creates a span as a child of the span current in ctx.
func (t *otelTracer) Start(ctx context.Context, spanName string, opts ...observability.SpanOption) (context.Context, observability.Span) {
	cfg := observability.NewSpanConfig(opts)

	startOpts := []oteltrace.SpanStartOption{oteltrace.WithSpanKind(convertSpanKind(cfg.Kind()))}
	if attrs := convertFieldsToAttributes(cfg.Attributes()); attrs != nil {
		startOpts = append(startOpts, oteltrace.WithAttributes(attrs...))
	}

	ctx, span := t.tracer.Start(ctx, spanName, startOpts...)
	return ctx, &otelSpan{span: span}
}

// SpanFromContext returns the current span. Without one the SDK hands back a
// non-recording span whose context is invalid.
func (t *otelTracer) SpanFromContext(ctx context.Context) observability.Span {
	return &otelSpan{span: oteltrace.SpanFromContext(ctx)}
}

// ContextWithSpan makes span current. Spans from other backends are ignored.
func (t *otelTracer) ContextWithSpan(ctx context.Context, span observability.Span) context.Context {
	s, ok := span.(*otelSpan)
	if !ok {
		return ctx
	}
	return oteltrace.ContextWithSpan(ctx, s.span)
}

type otelSpan struct {
	span oteltrace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttributes(fields ...observability.Field) {
	if attrs := convertFieldsToAttributes(fields); attrs != nil {
		s.span.SetAttributes(attrs...)
	}
}

func (s *otelSpan) SetStatus(code observability.StatusCode, description string) {
	s.span.SetStatus(convertStatusCode(code), description)
}

func (s *otelSpan) RecordError(err error, fields ...observability.Field) {
	attrs := convertFieldsToAttributes(fields)
	if attrs == nil {
		s.span.RecordError(err)
		return
	}
	s.span.RecordError(err, oteltrace.WithAttributes(attrs...))
}

func (s *otelSpan) AddEvent(name string, fields ...observability.Field) {
	attrs := convertFieldsToAttributes(fields)
	if attrs == nil {
		s.span.AddEvent(name)
		return
	}
	s.span.AddEvent(name, oteltrace.WithAttributes(attrs...))
}

func (s *otelSpan) Context() observability.SpanContext {
	return spanContext{sc: s.span.SpanContext()}
}

// Unwrap returns the underlying OpenTelemetry span.
func (s *otelSpan) Unwrap() oteltrace.Span {
	return s.span
}

type spanContext struct {
	sc oteltrace.SpanContext
}

func (c spanContext) TraceID() string {
	return c.sc.TraceID().String()
}

func (c spanContext) SpanID() string {
	return c.sc.SpanID().String()
}

func (c spanContext) IsSampled() bool {
	return c.sc.IsSampled()
}

func (c spanContext) IsValid() bool {
	return c.sc.IsValid()
}

func convertSpanKind(kind observability.SpanKind) oteltrace.SpanKind {
	switch kind {
	case observability.SpanKindServer:
		return oteltrace.SpanKindServer
	case observability.SpanKindClient:
		return oteltrace.SpanKindClient
	case observability.SpanKindProducer:
		return oteltrace.SpanKindProducer
	case observability.SpanKindConsumer:
		return oteltrace.SpanKindConsumer
	default:
		return oteltrace.SpanKindInternal
	}
}

func convertStatusCode(code observability.StatusCode) codes.Code {
	switch code {
	case observability.StatusCodeOK:
		return codes.Ok
	case observability.StatusCodeError:
		return codes.Error
	default:
		return codes.Unset
	}
}
