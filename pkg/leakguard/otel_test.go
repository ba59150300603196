package leakguard_test

import (
	"context"
	"testing"

	"github.com/JailtonJunior94/tracekit/pkg/leakguard"
	tkotel "github.com/JailtonJunior94/tracekit/pkg/observability/otel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardWithOTelExporter(t *testing.T) {
	provider, exporter := tkotel.NewTestProvider("leakguard-test")
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	guard := leakguard.New(provider)

	t.Run("clean entry exports a root marker", func(t *testing.T) {
		exporter.Reset()

		err := guard.Run(context.Background(), true, func(ctx context.Context) error {
			_, span := provider.Tracer().Start(ctx, "handler")
			span.End()
			return nil
		})
		require.NoError(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)
		assert.Equal(t, "handler", spans[0].Name)
		assert.Equal(t, leakguard.DefaultSpanName, spans[1].Name)
		assert.False(t, spans[1].Parent.IsValid())
		assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	})

	t.Run("leaked span is exported and marker is not a root", func(t *testing.T) {
		exporter.Reset()

		leakedCtx, _ := provider.Tracer().Start(context.Background(), "leaked")

		scope := guard.Enter(leakedCtx, true)
		require.NotNil(t, scope)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "leaked", spans[0].Name)

		guard.Exit(scope)

		spans = exporter.GetSpans()
		require.Len(t, spans, 2)
		assert.Equal(t, leakguard.DefaultSpanName, spans[1].Name)
		assert.True(t, spans[1].Parent.IsValid())
		assert.Equal(t, spans[0].SpanContext.SpanID(), spans[1].Parent.SpanID())
	})
}
