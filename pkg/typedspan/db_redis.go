package typedspan

import (
	"context"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
)

// DbRedis builds spans following the Redis database convention.
type DbRedis struct {
	span observability.Span
}

var _ Convention = (*DbRedis)(nil)

// NewDbRedis wraps an existing span.
func NewDbRedis(span observability.Span) *DbRedis {
	return &DbRedis{span: span}
}

// StartDbRedis starts a client span and wraps it.
func StartDbRedis(ctx context.Context, tracer observability.Tracer, name string, opts ...observability.SpanOption) (context.Context, *DbRedis) {
	opts = append([]observability.SpanOption{observability.WithSpanKind(observability.SpanKindClient)}, opts...)
	ctx, span := tracer.Start(ctx, name, opts...)
	return ctx, NewDbRedis(span)
}

func (b *DbRedis) End() {
	b.span.End()
}

func (b *DbRedis) Span() observability.Span {
	return b.span
}

func (b *DbRedis) set(field observability.Field) *DbRedis {
	b.span.SetAttributes(field)
	return b
}

// SetDBSystem sets db.system, the DBMS product identifier.
func (b *DbRedis) SetDBSystem(dbSystem string) *DbRedis {
	return b.set(observability.String(DBSystemKey, dbSystem))
}

// SetDBConnectionString sets db.connection_string. Embedded credentials
// should be removed first.
func (b *DbRedis) SetDBConnectionString(dbConnectionString string) *DbRedis {
	return b.set(observability.String(DBConnectionStringKey, dbConnectionString))
}

// SetDBUser sets db.user.
func (b *DbRedis) SetDBUser(dbUser string) *DbRedis {
	return b.set(observability.String(DBUserKey, dbUser))
}

// SetDBJDBCDriverClassname sets db.jdbc.driver_classname. Kept for parity
// with the shared database vocabulary.
func (b *DbRedis) SetDBJDBCDriverClassname(dbJDBCDriverClassname string) *DbRedis {
	return b.set(observability.String(DBJDBCDriverClassnameKey, dbJDBCDriverClassname))
}

// SetDBName sets db.name. Prefer SetDBRedisDatabaseIndex for Redis.
func (b *DbRedis) SetDBName(dbName string) *DbRedis {
	return b.set(observability.String(DBNameKey, dbName))
}

// SetDBStatement sets db.statement. The value may be sanitized beforehand.
func (b *DbRedis) SetDBStatement(dbStatement string) *DbRedis {
	return b.set(observability.String(DBStatementKey, dbStatement))
}

// SetDBOperation sets db.operation, e.g. the command name. It is never
// derived by parsing the statement.
func (b *DbRedis) SetDBOperation(dbOperation string) *DbRedis {
	return b.set(observability.String(DBOperationKey, dbOperation))
}

// SetNetPeerName sets net.peer.name.
func (b *DbRedis) SetNetPeerName(netPeerName string) *DbRedis {
	return b.set(observability.String(NetPeerNameKey, netPeerName))
}

// SetNetPeerIP sets net.peer.ip (dotted decimal or RFC 5952).
func (b *DbRedis) SetNetPeerIP(netPeerIP string) *DbRedis {
	return b.set(observability.String(NetPeerIPKey, netPeerIP))
}

// SetNetPeerPort sets net.peer.port.
func (b *DbRedis) SetNetPeerPort(netPeerPort int64) *DbRedis {
	return b.set(observability.Int64(NetPeerPortKey, netPeerPort))
}

// SetNetTransport sets net.transport.
func (b *DbRedis) SetNetTransport(netTransport string) *DbRedis {
	return b.set(observability.String(NetTransportKey, netTransport))
}

// SetDBRedisDatabaseIndex sets db.redis.database_index, the index chosen
// with SELECT.
func (b *DbRedis) SetDBRedisDatabaseIndex(dbRedisDatabaseIndex int64) *DbRedis {
	return b.set(observability.Int64(DBRedisDatabaseIndexKey, dbRedisDatabaseIndex))
}
