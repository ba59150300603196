// Package fake provides a recording observability provider for tests.
// Every span, log entry and metric value is captured for later assertions.
package fake

import "github.com/JailtonJunior94/tracekit/pkg/observability"

// Provider is an observability.Observability that records everything.
type Provider struct {
	tracer  *FakeTracer
	logger  *FakeLogger
	metrics *FakeMetrics
}

// NewProvider creates a new recording provider.
func NewProvider() *Provider {
	return &Provider{
		tracer:  NewFakeTracer(),
		logger:  NewFakeLogger(),
		metrics: NewFakeMetrics(),
	}
}

// Tracer returns the recording tracer.
func (p *Provider) Tracer() observability.Tracer {
	return p.tracer
}

// Logger returns the recording logger.
func (p *Provider) Logger() observability.Logger {
	return p.logger
}

// Metrics returns the recording metrics.
func (p *Provider) Metrics() observability.Metrics {
	return p.metrics
}

// FakeTracer returns the concrete tracer, for assertions.
func (p *Provider) FakeTracer() *FakeTracer {
	return p.tracer
}

// FakeLogger returns the concrete logger, for assertions.
func (p *Provider) FakeLogger() *FakeLogger {
	return p.logger
}

// FakeMetrics returns the concrete metrics recorder, for assertions.
func (p *Provider) FakeMetrics() *FakeMetrics {
	return p.metrics
}
