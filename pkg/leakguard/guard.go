package leakguard

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/observability/noop"
)

// Guard opens and closes marker spans. It is safe for concurrent use; each
// ScopedSpan it returns is not.
type Guard struct {
	tracer      observability.Tracer
	logger      observability.Logger
	leakCounter observability.Counter
	spanName    string
	policy      LeakPolicy
	leaks       atomic.Int64
}

// New creates a Guard. A nil provider falls back to the no-op provider.
func New(o11y observability.Observability, opts ...Option) *Guard {
	if o11y == nil {
		o11y = noop.NewProvider()
	}

	g := &Guard{
		tracer:   o11y.Tracer(),
		logger:   o11y.Logger().With(observability.String("component", "leakguard")),
		spanName: DefaultSpanName,
		policy:   LeakPolicyEnd,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.leakCounter = o11y.Metrics().Counter(LeakedSpansMetric, "Spans found active at the entry of a guarded operation", "{span}")
	return g
}

// Enter starts the marker span. It returns nil and touches nothing when
// enabled is false.
//
// When a valid span is already current in ctx it is reported as leaked and,
// under LeakPolicyEnd, ended before the marker span starts.
func (g *Guard) Enter(ctx context.Context, enabled bool) *ScopedSpan {
	if !enabled {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if current := g.tracer.SpanFromContext(ctx); current.Context().IsValid() {
		g.reportLeak(ctx, current)
	}

	spanCtx, span := g.tracer.Start(ctx, g.spanName)
	return &ScopedSpan{
		span:   span,
		ctx:    spanCtx,
		parent: ctx,
		state:  StateEntered,
	}
}

// Exit ends the marker span and then releases its scope. A nil or already
// exited handle is a no-op. Exit never panics: a panic raised by the span
// backend is logged and swallowed, and the scope is released regardless.
func (g *Guard) Exit(scope *ScopedSpan) {
	if scope == nil || scope.state != StateEntered {
		return
	}

	defer g.recoverExit(scope)
	defer scope.closeScope()

	scope.span.End()
}

// Run wraps fn between Enter and Exit. Exit is deferred, so it runs when fn
// returns an error and when it panics; the panic is re-raised afterwards.
// fn receives the marker span's context, or ctx itself when disabled.
func (g *Guard) Run(ctx context.Context, enabled bool, fn func(ctx context.Context) error) error {
	scope := g.Enter(ctx, enabled)
	defer g.Exit(scope)

	if scope != nil {
		ctx = scope.Context()
	}
	return fn(ctx)
}

// Leaks returns how many leaked spans this guard has seen.
func (g *Guard) Leaks() int64 {
	return g.leaks.Load()
}

func (g *Guard) reportLeak(ctx context.Context, leaked observability.Span) {
	g.leaks.Add(1)

	spanContext := leaked.Context()
	g.leakCounter.Increment(ctx, observability.String("policy", g.policy.String()))
	g.logger.Warn(ctx, "leaked span is still active at operation entry",
		observability.String("leaked_trace_id", spanContext.TraceID()),
		observability.String("leaked_span_id", spanContext.SpanID()),
		observability.String("policy", g.policy.String()),
	)

	if g.policy == LeakPolicyEnd {
		leaked.End()
	}
}

func (g *Guard) recoverExit(scope *ScopedSpan) {
	recovered := recover()
	if recovered == nil {
		return
	}
	g.logger.Error(scope.parent, "span backend panicked while ending the marker span",
		observability.String("panic", fmt.Sprint(recovered)),
	)
}
