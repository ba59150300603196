package leakguard

import (
	"context"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
)

// State is the lifecycle state of a ScopedSpan. A nil *ScopedSpan is the
// absent state.
type State int

const (
	StateEntered State = iota + 1
	StateExited
)

func (s State) String() string {
	switch s {
	case StateEntered:
		return "entered"
	case StateExited:
		return "exited"
	default:
		return "absent"
	}
}

// ScopedSpan pairs the marker span with its activation: the context in which
// it is current and the context that was current before.
//
// A ScopedSpan belongs to the goroutine that entered it and is not safe for
// concurrent use.
type ScopedSpan struct {
	span   observability.Span
	ctx    context.Context
	parent context.Context
	state  State
}

// Span returns the marker span.
func (s *ScopedSpan) Span() observability.Span {
	return s.span
}

// Context returns the context in which the marker span is current. After
// exit it returns the restored parent context.
func (s *ScopedSpan) Context() context.Context {
	return s.ctx
}

// Parent returns the context that was current before entry.
func (s *ScopedSpan) Parent() context.Context {
	return s.parent
}

// State returns the lifecycle state.
func (s *ScopedSpan) State() State {
	return s.state
}

func (s *ScopedSpan) closeScope() {
	s.ctx = s.parent
	s.state = StateExited
}
