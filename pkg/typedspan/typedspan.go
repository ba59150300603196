// Package typedspan wraps an observability.Span behind per-system builders
// with one typed setter per semantic-convention attribute. Each variant owns
// a closed vocabulary: callers cannot misspell a key or pass a value of the
// wrong type.
//
// Setters record values exactly as given. Sanitizing statements or stripping
// credentials from connection strings is the caller's job.
package typedspan

import "github.com/JailtonJunior94/tracekit/pkg/observability"

// Convention is the capability every variant shares.
type Convention interface {
	// End ends the underlying span. Calling it twice is a caller error.
	End()

	// Span returns the underlying span without ending it.
	Span() observability.Span
}
