package observability

// SpanContext identifies a span inside a trace.
type SpanContext interface {
	TraceID() string
	SpanID() string
	IsSampled() bool

	// IsValid reports whether the context belongs to a real span, i.e. both
	// trace and span ids are set.
	IsValid() bool
}

// Span is one unit of traced work.
type Span interface {
	// End finishes the span. Calling End more than once is a caller error;
	// backends are not required to guard against it.
	End()

	// SetAttributes sets attributes on the span, overwriting values already
	// stored under the same key.
	SetAttributes(fields ...Field)

	SetStatus(code StatusCode, description string)
	RecordError(err error, fields ...Field)
	AddEvent(name string, fields ...Field)
	Context() SpanContext
}

// StatusCode is the canonical status of a span.
type StatusCode int

const (
	StatusCodeUnset StatusCode = iota
	StatusCodeOK
	StatusCodeError
)

// SpanKind is the role of a span in a trace.
type SpanKind int

const (
	SpanKindInternal SpanKind = iota
	SpanKindServer
	SpanKindClient
	SpanKindProducer
	SpanKindConsumer
)

// String returns the lower-case name of the kind.
func (k SpanKind) String() string {
	switch k {
	case SpanKindServer:
		return "server"
	case SpanKindClient:
		return "client"
	case SpanKindProducer:
		return "producer"
	case SpanKindConsumer:
		return "consumer"
	default:
		return "internal"
	}
}

// SpanOption configures span creation.
type SpanOption interface {
	apply(*spanConfig)
}

type spanConfig struct {
	kind       SpanKind
	attributes []Field
}

type spanOptionFunc func(*spanConfig)

func (f spanOptionFunc) apply(c *spanConfig) {
	f(c)
}

// WithSpanKind sets the span kind. Spans default to SpanKindInternal.
func WithSpanKind(kind SpanKind) SpanOption {
	return spanOptionFunc(func(c *spanConfig) {
		c.kind = kind
	})
}

// WithAttributes sets attributes recorded when the span starts.
func WithAttributes(fields ...Field) SpanOption {
	return spanOptionFunc(func(c *spanConfig) {
		c.attributes = append(c.attributes, fields...)
	})
}

// SpanConfig is the resolved set of span options, read by backends.
type SpanConfig interface {
	Kind() SpanKind
	Attributes() []Field
}

// NewSpanConfig resolves opts into a SpanConfig.
func NewSpanConfig(opts []SpanOption) SpanConfig {
	cfg := &spanConfig{
		kind:       SpanKindInternal,
		attributes: make([]Field, 0),
	}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return cfg
}

func (c *spanConfig) Kind() SpanKind {
	return c.kind
}

func (c *spanConfig) Attributes() []Field {
	return c.attributes
}
