package otel

import (
	"context"
	"time"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/observability/zaplog"
	otellog "go.opentelemetry.io/otel/log"
)

// otelLogger writes every entry to the console through zap and emits the
// same entry as an OTLP log record.
type otelLogger struct {
	console *zaplog.Logger
	otelLog otellog.Logger
	fields  []observability.Field
}

func newOtelLogger(console *zaplog.Logger, otelLog otellog.Logger) *otelLogger {
	return &otelLogger{
		console: console,
		otelLog: otelLog,
	}
}

func (l *otelLogger) Debug(ctx context.Context, msg string, fields ...observability.Field) {
	l.console.Debug(ctx, msg, l.merge(fields)...)
	l.emit(ctx, otellog.SeverityDebug, "DEBUG", msg, fields)
}

func (l *otelLogger) Info(ctx context.Context, msg string, fields ...observability.Field) {
	l.console.Info(ctx, msg, l.merge(fields)...)
	l.emit(ctx, otellog.SeverityInfo, "INFO", msg, fields)
}

func (l *otelLogger) Warn(ctx context.Context, msg string, fields ...observability.Field) {
	l.console.Warn(ctx, msg, l.merge(fields)...)
	l.emit(ctx, otellog.SeverityWarn, "WARN", msg, fields)
}

func (l *otelLogger) Error(ctx context.Context, msg string, fields ...observability.Field) {
	l.console.Error(ctx, msg, l.merge(fields)...)
	l.emit(ctx, otellog.SeverityError, "ERROR", msg, fields)
}

func (l *otelLogger) With(fields ...observability.Field) observability.Logger {
	return &otelLogger{
		console: l.console,
		otelLog: l.otelLog,
		fields:  l.merge(fields),
	}
}

func (l *otelLogger) merge(fields []observability.Field) []observability.Field {
	all := make([]observability.Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	return append(all, fields...)
}

// emit sends the record to the OTel log pipeline. The SDK correlates it with
// the span current in ctx.
func (l *otelLogger) emit(ctx context.Context, severity otellog.Severity, severityText, msg string, fields []observability.Field) {
	sanitized := zaplog.SanitizeFields(l.merge(fields))

	attrs := make([]otellog.KeyValue, 0, len(sanitized))
	for _, field := range sanitized {
		attrs = append(attrs, convertFieldToLogKeyValue(field))
	}

	var record otellog.Record
	record.SetTimestamp(time.Now())
	record.SetBody(otellog.StringValue(msg))
	record.SetSeverity(severity)
	record.SetSeverityText(severityText)
	record.AddAttributes(attrs...)

	l.otelLog.Emit(ctx, record)
}
