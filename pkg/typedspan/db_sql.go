package typedspan

import (
	"context"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
)

// DbSQL builds spans following the SQL database convention.
type DbSQL struct {
	span observability.Span
}

var _ Convention = (*DbSQL)(nil)

// NewDbSQL wraps an existing span.
func NewDbSQL(span observability.Span) *DbSQL {
	return &DbSQL{span: span}
}

// StartDbSQL starts a client span and wraps it.
func StartDbSQL(ctx context.Context, tracer observability.Tracer, name string, opts ...observability.SpanOption) (context.Context, *DbSQL) {
	opts = append([]observability.SpanOption{observability.WithSpanKind(observability.SpanKindClient)}, opts...)
	ctx, span := tracer.Start(ctx, name, opts...)
	return ctx, NewDbSQL(span)
}

func (b *DbSQL) End() {
	b.span.End()
}

func (b *DbSQL) Span() observability.Span {
	return b.span
}

func (b *DbSQL) SetDBSystem(dbSystem string) *DbSQL {
	b.span.SetAttributes(observability.String(DBSystemKey, dbSystem))
	return b
}

func (b *DbSQL) SetDBConnectionString(dbConnectionString string) *DbSQL {
	b.span.SetAttributes(observability.String(DBConnectionStringKey, dbConnectionString))
	return b
}

func (b *DbSQL) SetDBUser(dbUser string) *DbSQL {
	b.span.SetAttributes(observability.String(DBUserKey, dbUser))
	return b
}

func (b *DbSQL) SetDBJDBCDriverClassname(dbJDBCDriverClassname string) *DbSQL {
	b.span.SetAttributes(observability.String(DBJDBCDriverClassnameKey, dbJDBCDriverClassname))
	return b
}

// SetDBName sets db.name, the database or schema being accessed.
func (b *DbSQL) SetDBName(dbName string) *DbSQL {
	b.span.SetAttributes(observability.String(DBNameKey, dbName))
	return b
}

// SetDBStatement sets db.statement.
func (b *DbSQL) SetDBStatement(dbStatement string) *DbSQL {
	b.span.SetAttributes(observability.String(DBStatementKey, dbStatement))
	return b
}

// SetDBOperation sets db.operation, e.g. SELECT.
func (b *DbSQL) SetDBOperation(dbOperation string) *DbSQL {
	b.span.SetAttributes(observability.String(DBOperationKey, dbOperation))
	return b
}

func (b *DbSQL) SetNetPeerName(netPeerName string) *DbSQL {
	b.span.SetAttributes(observability.String(NetPeerNameKey, netPeerName))
	return b
}

func (b *DbSQL) SetNetPeerIP(netPeerIP string) *DbSQL {
	b.span.SetAttributes(observability.String(NetPeerIPKey, netPeerIP))
	return b
}

func (b *DbSQL) SetNetPeerPort(netPeerPort int64) *DbSQL {
	b.span.SetAttributes(observability.Int64(NetPeerPortKey, netPeerPort))
	return b
}

func (b *DbSQL) SetNetTransport(netTransport string) *DbSQL {
	b.span.SetAttributes(observability.String(NetTransportKey, netTransport))
	return b
}

// SetDBSQLTable sets db.sql.table, the primary table of the operation.
func (b *DbSQL) SetDBSQLTable(dbSQLTable string) *DbSQL {
	b.span.SetAttributes(observability.String(DBSQLTableKey, dbSQLTable))
	return b
}
