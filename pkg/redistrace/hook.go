// Package redistrace traces go-redis commands with typed Redis spans.
package redistrace

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-redis/redis/v8"

	"github.com/JailtonJunior94/tracekit/pkg/agentconfig"
	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/typedspan"
)

const (
	pipelineOperation = "PIPELINE"
	placeholder       = "?"
)

// Commands whose every argument is a credential.
var credentialCommands = map[string]struct{}{
	"auth":  {},
	"hello": {},
}

type spanKey struct{}

// Hook is a redis.Hook that wraps every command, and every pipeline, in a
// DbRedis span.
type Hook struct {
	tracer       observability.Tracer
	peerName     string
	peerIP       string
	peerPort     int64
	transport    string
	db           int64
	user         string
	maxStatement int
}

var _ redis.Hook = (*Hook)(nil)

// Option configures a Hook.
type Option func(*Hook)

// WithClientOptions copies the peer address, transport, user and database
// index from the client options.
func WithClientOptions(opts *redis.Options) Option {
	return func(h *Hook) {
		if opts == nil {
			return
		}
		h.setAddr(opts.Network, opts.Addr)
		h.db = int64(opts.DB)
		h.user = opts.Username
	}
}

// WithMaxStatementLength truncates recorded statements. Zero keeps them
// whole.
func WithMaxStatementLength(n int) Option {
	return func(h *Hook) {
		h.maxStatement = n
	}
}

// NewHook creates a Hook reporting to tracer.
func NewHook(tracer observability.Tracer, opts ...Option) *Hook {
	h := &Hook{
		tracer:    tracer,
		transport: typedspan.NetTransportTCP,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Instrument adds a Hook to client unless the agent configuration disables
// the redis instrumentation. It reports whether the hook was installed.
func Instrument(client *redis.Client, tracer observability.Tracer, config *agentconfig.AgentTracerConfig, opts ...Option) bool {
	if config != nil && !config.InstrumentationEnabled(agentconfig.InstrumentationRedis) {
		return false
	}
	opts = append([]Option{WithClientOptions(client.Options())}, opts...)
	client.AddHook(NewHook(tracer, opts...))
	return true
}

func (h *Hook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	operation := strings.ToUpper(cmd.Name())
	ctx, span := h.start(ctx, operation)
	span.SetDBOperation(operation).
		SetDBStatement(h.truncate(statement(cmd)))
	return context.WithValue(ctx, spanKey{}, span), nil
}

func (h *Hook) AfterProcess(ctx context.Context, cmd redis.Cmder) error {
	span, ok := ctx.Value(spanKey{}).(*typedspan.DbRedis)
	if !ok {
		return nil
	}
	finish(span, cmd.Err())
	return nil
}

func (h *Hook) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	statements := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		statements = append(statements, statement(cmd))
	}

	ctx, span := h.start(ctx, pipelineOperation)
	span.SetDBOperation(pipelineOperation).
		SetDBStatement(h.truncate(strings.Join(statements, "\n")))
	span.Span().SetAttributes(observability.Int("db.redis.pipeline_length", len(cmds)))
	return context.WithValue(ctx, spanKey{}, span), nil
}

func (h *Hook) AfterProcessPipeline(ctx context.Context, cmds []redis.Cmder) error {
	span, ok := ctx.Value(spanKey{}).(*typedspan.DbRedis)
	if !ok {
		return nil
	}

	var err error
	for _, cmd := range cmds {
		if cmdErr := cmd.Err(); cmdErr != nil && !errors.Is(cmdErr, redis.Nil) {
			err = cmdErr
			break
		}
	}
	finish(span, err)
	return nil
}

func (h *Hook) start(ctx context.Context, name string) (context.Context, *typedspan.DbRedis) {
	ctx, span := typedspan.StartDbRedis(ctx, h.tracer, name)
	span.SetDBSystem(typedspan.DBSystemRedis).
		SetNetTransport(h.transport).
		SetDBRedisDatabaseIndex(h.db)
	if h.peerName != "" {
		span.SetNetPeerName(h.peerName)
	}
	if h.peerIP != "" {
		span.SetNetPeerIP(h.peerIP)
	}
	if h.peerPort > 0 {
		span.SetNetPeerPort(h.peerPort)
	}
	if h.user != "" {
		span.SetDBUser(h.user)
	}
	return ctx, span
}

func (h *Hook) setAddr(network, addr string) {
	if network == "unix" {
		h.transport = typedspan.NetTransportUnix
		h.peerName = addr
		return
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		h.peerName = addr
		return
	}
	if ip := net.ParseIP(host); ip != nil {
		h.peerIP = ip.String()
	} else {
		h.peerName = host
	}
	if p, err := strconv.ParseInt(port, 10, 64); err == nil {
		h.peerPort = p
	}
}

func (h *Hook) truncate(s string) string {
	if h.maxStatement <= 0 || len(s) <= h.maxStatement {
		return s
	}
	cut := h.maxStatement
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// finish ends the span. redis.Nil is a cache miss, not a failure.
func finish(span *typedspan.DbRedis, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		span.Span().RecordError(err)
		span.Span().SetStatus(observability.StatusCodeError, err.Error())
	}
	span.End()
}

// statement renders cmd keeping the command name and its key. Every other
// argument becomes a placeholder, and credential commands keep none.
func statement(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) == 0 {
		return ""
	}

	name := fmt.Sprint(args[0])
	parts := make([]string, len(args))
	parts[0] = name
	_, credentials := credentialCommands[strings.ToLower(name)]
	for i := 1; i < len(args); i++ {
		if i == 1 && !credentials {
			parts[i] = fmt.Sprint(args[i])
			continue
		}
		parts[i] = placeholder
	}
	return strings.Join(parts, " ")
}
