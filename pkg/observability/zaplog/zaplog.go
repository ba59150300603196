// Package zaplog implements observability.Logger on top of go.uber.org/zap.
package zaplog

import (
	"context"
	"os"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls how the zap core is built.
type Config struct {
	Level       observability.LogLevel
	Format      observability.LogFormat
	ServiceName string

	// Output defaults to stdout.
	Output zapcore.WriteSyncer
}

// Logger is an observability.Logger backed by a *zap.Logger.
type Logger struct {
	zap    *zap.Logger
	tracer observability.Tracer
}

// Option configures a Logger.
type Option func(*Logger)

// WithTracer makes the logger read the current span through tracer and add
// its trace_id and span_id to every entry.
func WithTracer(tracer observability.Tracer) Option {
	return func(l *Logger) {
		l.tracer = tracer
	}
}

// New builds a zap core from cfg.
func New(cfg Config, opts ...Option) *Logger {
	output := cfg.Output
	if output == nil {
		output = zapcore.Lock(os.Stdout)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == observability.LogFormatText {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, output, zap.NewAtomicLevelAt(ConvertLevel(cfg.Level)))

	base := zap.New(core)
	if cfg.ServiceName != "" {
		base = base.With(zap.String("service", cfg.ServiceName))
	}

	return NewFromZap(base, opts...)
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(z *zap.Logger, opts ...Option) *Logger {
	l := &Logger{zap: z}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Zap returns the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...observability.Field) {
	l.zap.Debug(msg, l.zapFields(ctx, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...observability.Field) {
	l.zap.Info(msg, l.zapFields(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...observability.Field) {
	l.zap.Warn(msg, l.zapFields(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...observability.Field) {
	l.zap.Error(msg, l.zapFields(ctx, fields)...)
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...observability.Field) observability.Logger {
	return &Logger{
		zap:    l.zap.With(ToZapFields(SanitizeFields(fields))...),
		tracer: l.tracer,
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func (l *Logger) zapFields(ctx context.Context, fields []observability.Field) []zap.Field {
	result := ToZapFields(SanitizeFields(fields))
	if l.tracer == nil || ctx == nil {
		return result
	}

	spanContext := l.tracer.SpanFromContext(ctx).Context()
	if spanContext.IsValid() {
		result = append(result,
			zap.String("trace_id", spanContext.TraceID()),
			zap.String("span_id", spanContext.SpanID()),
		)
	}
	return result
}

// ConvertLevel maps an observability level to a zap level. Unknown levels
// map to info.
func ConvertLevel(level observability.LogLevel) zapcore.Level {
	switch level {
	case observability.LogLevelDebug:
		return zapcore.DebugLevel
	case observability.LogLevelWarn:
		return zapcore.WarnLevel
	case observability.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ToZapFields converts observability fields to zap fields.
func ToZapFields(fields []observability.Field) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		result = append(result, ToZapField(field))
	}
	return result
}

// ToZapField converts a single observability field to a zap field.
func ToZapField(field observability.Field) zap.Field {
	switch v := field.Value.(type) {
	case string:
		return zap.String(field.Key, v)
	case int:
		return zap.Int(field.Key, v)
	case int64:
		return zap.Int64(field.Key, v)
	case float64:
		return zap.Float64(field.Key, v)
	case bool:
		return zap.Bool(field.Key, v)
	case error:
		return zap.NamedError(field.Key, v)
	default:
		return zap.Any(field.Key, v)
	}
}
