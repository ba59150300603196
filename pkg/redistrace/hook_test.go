package redistrace_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JailtonJunior94/tracekit/pkg/agentconfig"
	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/observability/fake"
	"github.com/JailtonJunior94/tracekit/pkg/redistrace"
	"github.com/JailtonJunior94/tracekit/pkg/typedspan"
)

func process(t *testing.T, hook *redistrace.Hook, cmd redis.Cmder, err error) {
	t.Helper()
	ctx, hookErr := hook.BeforeProcess(context.Background(), cmd)
	require.NoError(t, hookErr)
	if err != nil {
		cmd.SetErr(err)
	}
	require.NoError(t, hook.AfterProcess(ctx, cmd))
}

func TestHookCommand(t *testing.T) {
	tracer := fake.NewFakeTracer()
	hook := redistrace.NewHook(tracer, redistrace.WithClientOptions(&redis.Options{
		Addr:     "cache.internal:6380",
		DB:       3,
		Username: "app",
	}))

	process(t, hook, redis.NewStringCmd(context.Background(), "get", "user:42"), nil)

	spans := tracer.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, "GET", span.Name)
	assert.Equal(t, observability.SpanKindClient, span.Kind)
	assert.Equal(t, 1, span.EndCount())
	assert.Equal(t, map[string]any{
		typedspan.DBSystemKey:             typedspan.DBSystemRedis,
		typedspan.DBOperationKey:          "GET",
		typedspan.DBStatementKey:          "get user:42",
		typedspan.DBUserKey:               "app",
		typedspan.DBRedisDatabaseIndexKey: int64(3),
		typedspan.NetPeerNameKey:          "cache.internal",
		typedspan.NetPeerPortKey:          int64(6380),
		typedspan.NetTransportKey:         typedspan.NetTransportTCP,
	}, span.AttributeMap())
}

func TestHookPeerIPAndUnixSocket(t *testing.T) {
	tracer := fake.NewFakeTracer()

	hook := redistrace.NewHook(tracer, redistrace.WithClientOptions(&redis.Options{Addr: "127.0.0.1:6379"}))
	process(t, hook, redis.NewStatusCmd(context.Background(), "ping"), nil)

	attrs := tracer.GetSpans()[0].AttributeMap()
	assert.Equal(t, "127.0.0.1", attrs[typedspan.NetPeerIPKey])
	assert.NotContains(t, attrs, typedspan.NetPeerNameKey)

	tracer.Reset()
	hook = redistrace.NewHook(tracer, redistrace.WithClientOptions(&redis.Options{Network: "unix", Addr: "/var/run/redis.sock"}))
	process(t, hook, redis.NewStatusCmd(context.Background(), "ping"), nil)

	attrs = tracer.GetSpans()[0].AttributeMap()
	assert.Equal(t, typedspan.NetTransportUnix, attrs[typedspan.NetTransportKey])
	assert.Equal(t, "/var/run/redis.sock", attrs[typedspan.NetPeerNameKey])
	assert.NotContains(t, attrs, typedspan.NetPeerPortKey)
}

func TestHookErrors(t *testing.T) {
	t.Run("command error is recorded", func(t *testing.T) {
		tracer := fake.NewFakeTracer()
		hook := redistrace.NewHook(tracer)
		want := errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

		process(t, hook, redis.NewStringCmd(context.Background(), "get", "list"), want)

		span := tracer.GetSpans()[0]
		assert.Equal(t, observability.StatusCodeError, span.Status)
		assert.ErrorIs(t, span.RecordedErr, want)
		assert.True(t, span.Ended())
	})

	t.Run("redis.Nil is a miss", func(t *testing.T) {
		tracer := fake.NewFakeTracer()
		hook := redistrace.NewHook(tracer)

		process(t, hook, redis.NewStringCmd(context.Background(), "get", "absent"), redis.Nil)

		span := tracer.GetSpans()[0]
		assert.Equal(t, observability.StatusCodeUnset, span.Status)
		assert.Nil(t, span.RecordedErr)
	})
}

func TestHookPipeline(t *testing.T) {
	tracer := fake.NewFakeTracer()
	hook := redistrace.NewHook(tracer)
	cmds := []redis.Cmder{
		redis.NewStatusCmd(context.Background(), "set", "k", "v"),
		redis.NewIntCmd(context.Background(), "incr", "counter"),
	}

	ctx, err := hook.BeforeProcessPipeline(context.Background(), cmds)
	require.NoError(t, err)
	cmds[1].SetErr(errors.New("ERR value is not an integer"))
	require.NoError(t, hook.AfterProcessPipeline(ctx, cmds))

	span := tracer.GetSpans()[0]
	assert.Equal(t, "PIPELINE", span.Name)
	statement, _ := span.Attribute(typedspan.DBStatementKey)
	assert.Equal(t, "set k ?\nincr counter", statement)
	length, _ := span.Attribute("db.redis.pipeline_length")
	assert.Equal(t, 2, length)
	assert.Equal(t, observability.StatusCodeError, span.Status)
}

func TestHookChildOfCurrentSpan(t *testing.T) {
	tracer := fake.NewFakeTracer()
	hook := redistrace.NewHook(tracer)

	ctx, parent := tracer.Start(context.Background(), "handler")
	ctx, err := hook.BeforeProcess(ctx, redis.NewStringCmd(ctx, "get", "k"))
	require.NoError(t, err)
	require.NoError(t, hook.AfterProcess(ctx, redis.NewStringCmd(ctx, "get", "k")))

	spans := tracer.SpansNamed("GET")
	require.Len(t, spans, 1)
	assert.Equal(t, parent.Context().SpanID(), spans[0].ParentSpanID)
}

func TestMaxStatementLength(t *testing.T) {
	tracer := fake.NewFakeTracer()
	hook := redistrace.NewHook(tracer, redistrace.WithMaxStatementLength(7))

	process(t, hook, redis.NewStatusCmd(context.Background(), "set", "key", "a-very-long-value"), nil)

	statement, _ := tracer.GetSpans()[0].Attribute(typedspan.DBStatementKey)
	assert.Equal(t, "set key", statement)
}

func TestMaxStatementLengthKeepsRunes(t *testing.T) {
	tracer := fake.NewFakeTracer()
	hook := redistrace.NewHook(tracer, redistrace.WithMaxStatementLength(8))

	process(t, hook, redis.NewStringCmd(context.Background(), "get", "café:1"), nil)

	statement, _ := tracer.GetSpans()[0].Attribute(typedspan.DBStatementKey)
	assert.Equal(t, "get caf", statement)
	assert.True(t, utf8.ValidString(statement.(string)))
}

func TestStatementHidesValues(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{name: "auth with user", args: []any{"auth", "app", "s3cr3t-password"}, want: "auth ? ?"},
		{name: "auth password only", args: []any{"AUTH", "s3cr3t-password"}, want: "AUTH ?"},
		{name: "hello with credentials", args: []any{"hello", 3, "AUTH", "app", "s3cr3t-password"}, want: "hello ? ? ? ?"},
		{name: "set keeps the key", args: []any{"set", "session:1", "token-value", "EX", 60}, want: "set session:1 ? ? ?"},
		{name: "hset", args: []any{"hset", "user:1", "email", "a@b.c"}, want: "hset user:1 ? ?"},
		{name: "no arguments", args: []any{"ping"}, want: "ping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer := fake.NewFakeTracer()
			hook := redistrace.NewHook(tracer)

			process(t, hook, redis.NewStatusCmd(context.Background(), tt.args...), nil)

			statement, _ := tracer.GetSpans()[0].Attribute(typedspan.DBStatementKey)
			assert.Equal(t, tt.want, statement)
			assert.NotContains(t, statement, "s3cr3t-password")
		})
	}
}

func TestPipelineStatementHidesCredentials(t *testing.T) {
	tracer := fake.NewFakeTracer()
	hook := redistrace.NewHook(tracer)
	cmds := []redis.Cmder{
		redis.NewStatusCmd(context.Background(), "auth", "app", "s3cr3t-password"),
		redis.NewStringCmd(context.Background(), "get", "k"),
	}

	ctx, err := hook.BeforeProcessPipeline(context.Background(), cmds)
	require.NoError(t, err)
	require.NoError(t, hook.AfterProcessPipeline(ctx, cmds))

	statement, _ := tracer.GetSpans()[0].Attribute(typedspan.DBStatementKey)
	assert.Equal(t, "auth ? ?\nget k", statement)
}

func TestAfterProcessWithoutSpan(t *testing.T) {
	hook := redistrace.NewHook(fake.NewFakeTracer())
	assert.NoError(t, hook.AfterProcess(context.Background(), redis.NewStringCmd(context.Background(), "get", "k")))
	assert.NoError(t, hook.AfterProcessPipeline(context.Background(), nil))
}

func TestInstrument(t *testing.T) {
	newClient := func(t *testing.T) *redis.Client {
		client := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 200 * time.Millisecond,
			MaxRetries:  -1,
		})
		t.Cleanup(func() { _ = client.Close() })
		return client
	}

	t.Run("installed when enabled", func(t *testing.T) {
		tracer := fake.NewFakeTracer()
		client := newClient(t)

		require.True(t, redistrace.Instrument(client, tracer, agentconfig.Default()))

		err := client.Get(context.Background(), "k").Err()
		require.Error(t, err)

		spans := tracer.SpansNamed("GET")
		require.Len(t, spans, 1)
		assert.Equal(t, observability.StatusCodeError, spans[0].Status)
		port, _ := spans[0].Attribute(typedspan.NetPeerPortKey)
		assert.Equal(t, int64(1), port)
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		tracer := fake.NewFakeTracer()
		client := newClient(t)
		config := agentconfig.Default()
		config.DisabledInstrumentations = []string{"Redis"}

		assert.False(t, redistrace.Instrument(client, tracer, config))

		_ = client.Get(context.Background(), "k").Err()
		assert.Empty(t, tracer.GetSpans())
	})
}
