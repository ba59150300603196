// Package observability is the provider-neutral tracing, logging and metrics
// facade shared by every tracekit package. Backends live in the otel, fake,
// noop and zaplog subpackages.
package observability

// Observability bundles the three signals an instrumented component needs.
type Observability interface {
	Tracer() Tracer
	Logger() Logger
	Metrics() Metrics
}
