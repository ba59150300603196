// Package noop provides an observability provider that records nothing.
// Its spans are never valid, so a lifecycle guard running on it never sees
// a leaked span.
package noop

import (
	"context"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
)

// Provider is a zero-overhead observability.Observability.
type Provider struct{}

// NewProvider creates a new no-op provider.
func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Tracer() observability.Tracer {
	return tracer{}
}

func (p *Provider) Logger() observability.Logger {
	return logger{}
}

func (p *Provider) Metrics() observability.Metrics {
	return metrics{}
}

type tracer struct{}

func (tracer) Start(ctx context.Context, _ string, _ ...observability.SpanOption) (context.Context, observability.Span) {
	return ctx, span{}
}

func (tracer) SpanFromContext(context.Context) observability.Span {
	return span{}
}

func (tracer) ContextWithSpan(ctx context.Context, _ observability.Span) context.Context {
	return ctx
}

type span struct{}

func (span) End() {}
func (span) SetAttributes(...observability.Field) {}
func (span) SetStatus(observability.StatusCode, string) {}
func (span) RecordError(error, ...observability.Field) {}
func (span) AddEvent(string, ...observability.Field) {}
func (span) Context() observability.SpanContext { return spanContext{} }

type spanContext struct{}

func (spanContext) TraceID() string { return "" }
func (spanContext) SpanID() string { return "" }
func (spanContext) IsSampled() bool { return false }
func (spanContext) IsValid() bool { return false }

type logger struct{}

func (logger) Debug(context.Context, string, ...observability.Field) {}
func (logger) Info(context.Context, string, ...observability.Field) {}
func (logger) Warn(context.Context, string, ...observability.Field) {}
func (logger) Error(context.Context, string, ...observability.Field) {}

func (l logger) With(...observability.Field) observability.Logger {
	return l
}

type metrics struct{}

func (metrics) Counter(string, string, string) observability.Counter {
	return counter{}
}

func (metrics) Histogram(string, string, string) observability.Histogram {
	return histogram{}
}

func (metrics) UpDownCounter(string, string, string) observability.UpDownCounter {
	return counter{}
}

func (metrics) Gauge(string, string, string, observability.GaugeCallback) error {
	return nil
}

type counter struct{}

func (counter) Add(context.Context, int64, ...observability.Field) {}
func (counter) Increment(context.Context, ...observability.Field) {}

type histogram struct{}

func (histogram) Record(context.Context, float64, ...observability.Field) {}
