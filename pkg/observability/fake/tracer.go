package fake

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/google/uuid"
)

type spanContextKey struct{}

// FakeTracer records every span it starts and carries the current span in
// the context like a real SDK does.
type FakeTracer struct {
	mu    sync.RWMutex
	spans []*FakeSpan
}

// NewFakeTracer creates a new recording tracer.
func NewFakeTracer() *FakeTracer {
	return &FakeTracer{
		spans: make([]*FakeSpan, 0),
	}
}

// Start records a new span. The span joins the trace of the span current in
// ctx when that one is valid, otherwise it starts a new trace.
func (t *FakeTracer) Start(ctx context.Context, spanName string, opts ...observability.SpanOption) (context.Context, observability.Span) {
	config := observability.NewSpanConfig(opts)

	parent := t.SpanFromContext(ctx).Context()

	traceID := newID(32)
	parentSpanID := ""
	if parent.IsValid() {
		traceID = parent.TraceID()
		parentSpanID = parent.SpanID()
	}

	attributes := make([]observability.Field, len(config.Attributes()))
	copy(attributes, config.Attributes())

	span := &FakeSpan{
		Name:         spanName,
		Kind:         config.Kind(),
		StartTime:    time.Now(),
		Attributes:   attributes,
		Events:       make([]FakeEvent, 0),
		ParentSpanID: parentSpanID,
		spanContext: &FakeSpanContext{
			traceID: traceID,
			spanID:  newID(16),
			sampled: true,
		},
	}

	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()

	return t.ContextWithSpan(ctx, span), span
}

// SpanFromContext returns the current span, or an unrecorded span with an
// invalid context when none is active.
func (t *FakeTracer) SpanFromContext(ctx context.Context) observability.Span {
	if ctx != nil {
		if span, ok := ctx.Value(spanContextKey{}).(observability.Span); ok && span != nil {
			return span
		}
	}
	return &FakeSpan{spanContext: &FakeSpanContext{}}
}

// ContextWithSpan returns a copy of ctx in which span is current.
func (t *FakeTracer) ContextWithSpan(ctx context.Context, span observability.Span) context.Context {
	return context.WithValue(ctx, spanContextKey{}, span)
}

// GetSpans returns all recorded spans in start order.
func (t *FakeTracer) GetSpans() []*FakeSpan {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]*FakeSpan, len(t.spans))
	copy(result, t.spans)
	return result
}

// SpansNamed returns the recorded spans called name.
func (t *FakeTracer) SpansNamed(name string) []*FakeSpan {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]*FakeSpan, 0)
	for _, span := range t.spans {
		if span.Name == name {
			result = append(result, span)
		}
	}
	return result
}

// Reset drops all recorded spans.
func (t *FakeTracer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = make([]*FakeSpan, 0)
}

func newID(length int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:length]
}

// FakeSpan records every operation performed on it.
type FakeSpan struct {
	mu           sync.RWMutex
	Name         string
	Kind         observability.SpanKind
	StartTime    time.Time
	EndTime      *time.Time
	Attributes   []observability.Field
	Events       []FakeEvent
	Status       observability.StatusCode
	StatusDesc   string
	RecordedErr  error
	ParentSpanID string

	endCount    int
	spanContext *FakeSpanContext
}

// End marks the span as ended. Every call is counted so tests can detect
// double termination.
func (s *FakeSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.endCount++
}

// SetAttributes appends fields to the attribute log.
func (s *FakeSpan) SetAttributes(fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attributes = append(s.Attributes, fields...)
}

// SetStatus sets the span status.
func (s *FakeSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = code
	s.StatusDesc = description
}

// RecordError stores err and appends fields to the attribute log.
func (s *FakeSpan) RecordError(err error, fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RecordedErr = err
	s.Attributes = append(s.Attributes, fields...)
}

// AddEvent records an event.
func (s *FakeSpan) AddEvent(name string, fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, FakeEvent{
		Name:      name,
		Timestamp: time.Now(),
		Fields:    fields,
	})
}

// Context returns the span context.
func (s *FakeSpan) Context() observability.SpanContext {
	if s.spanContext == nil {
		return &FakeSpanContext{}
	}
	return s.spanContext
}

// EndCount returns how many times End was called.
func (s *FakeSpan) EndCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endCount
}

// Ended reports whether End was called at least once.
func (s *FakeSpan) Ended() bool {
	return s.EndCount() > 0
}

// Attribute returns the last value set for key.
func (s *FakeSpan) Attribute(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.Attributes) - 1; i >= 0; i-- {
		if s.Attributes[i].Key == key {
			return s.Attributes[i].Value, true
		}
	}
	return nil, false
}

// AttributeMap collapses the attribute log into its final key/value view,
// the way an SDK overwrites attributes set under the same key.
func (s *FakeSpan) AttributeMap() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]any, len(s.Attributes))
	for _, field := range s.Attributes {
		result[field.Key] = field.Value
	}
	return result
}

// FakeEvent is a recorded span event.
type FakeEvent struct {
	Name      string
	Timestamp time.Time
	Fields    []observability.Field
}

// FakeSpanContext is the identity of a FakeSpan. The zero value is invalid.
type FakeSpanContext struct {
	traceID string
	spanID  string
	sampled bool
}

func (c *FakeSpanContext) TraceID() string {
	return c.traceID
}

func (c *FakeSpanContext) SpanID() string {
	return c.spanID
}

func (c *FakeSpanContext) IsSampled() bool {
	return c.sampled
}

func (c *FakeSpanContext) IsValid() bool {
	return c.traceID != "" && c.spanID != ""
}
