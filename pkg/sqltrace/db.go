// Package sqltrace traces database/sql calls with typed SQL spans.
package sqltrace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/JailtonJunior94/tracekit/pkg/agentconfig"
	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/typedspan"
)

// DriverPostgres is the pgx database/sql driver name.
const DriverPostgres = "pgx"

// DB wraps a *sql.DB and starts a DbSQL span around every query. When the
// sql instrumentation is disabled it forwards calls untouched.
type DB struct {
	db      *sql.DB
	tracer  observability.Tracer
	enabled bool
	attrs   connAttrs
}

// connAttrs are the connection-level attributes stamped on every span.
type connAttrs struct {
	system     string
	name       string
	user       string
	connString string
	peerName   string
	peerPort   int64
}

var _ DBTX = (*DB)(nil)

// Option configures a DB.
type Option func(*DB)

// WithDBSystem sets db.system. Defaults to postgresql.
func WithDBSystem(system string) Option {
	return func(d *DB) {
		d.attrs.system = system
	}
}

// WithDBName sets db.name.
func WithDBName(name string) Option {
	return func(d *DB) {
		d.attrs.name = name
	}
}

// WithDBUser sets db.user.
func WithDBUser(user string) Option {
	return func(d *DB) {
		d.attrs.user = user
	}
}

// WithPeer sets net.peer.name and net.peer.port.
func WithPeer(name string, port int64) Option {
	return func(d *DB) {
		d.attrs.peerName = name
		d.attrs.peerPort = port
	}
}

// WithConnectionString sets db.connection_string. Pass a DSN without
// credentials.
func WithConnectionString(dsn string) Option {
	return func(d *DB) {
		d.attrs.connString = dsn
	}
}

// WithAgentConfig turns tracing off when the sql instrumentation is
// disabled.
func WithAgentConfig(config *agentconfig.AgentTracerConfig) Option {
	return func(d *DB) {
		if config != nil {
			d.enabled = config.InstrumentationEnabled(agentconfig.InstrumentationSQL)
		}
	}
}

// New wraps db.
func New(db *sql.DB, tracer observability.Tracer, opts ...Option) (*DB, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	d := &DB{
		db:      db,
		tracer:  tracer,
		enabled: true,
		attrs:   connAttrs{system: typedspan.DBSystemPostgreSQL},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Open opens a database with driverName and wraps it. It does not ping.
func Open(driverName, dsn string, tracer observability.Tracer, opts ...Option) (*DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	wrapped, err := New(db, tracer, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return wrapped, nil
}

// Raw returns the wrapped *sql.DB.
func (d *DB) Raw() *sql.DB {
	return d.db
}

func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return d.db.PrepareContext(ctx, query)
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return traceExec(ctx, d, d.db, query, args)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return traceQuery(ctx, d, d.db, query, args)
}

// QueryRowContext ends its span before the row is scanned; the span records
// the row error, which database/sql reports eagerly.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return traceQueryRow(ctx, d, d.db, query, args)
}

func (d *DB) start(ctx context.Context, query string) (context.Context, *typedspan.DbSQL) {
	op := operation(query)
	name := op
	if name == "" {
		name = "sql"
	}

	ctx, span := typedspan.StartDbSQL(ctx, d.tracer, name)
	span.SetDBSystem(d.attrs.system).
		SetDBStatement(query).
		SetDBOperation(op)
	if t := table(query); t != "" {
		span.SetDBSQLTable(t)
	}
	if d.attrs.name != "" {
		span.SetDBName(d.attrs.name)
	}
	if d.attrs.user != "" {
		span.SetDBUser(d.attrs.user)
	}
	if d.attrs.connString != "" {
		span.SetDBConnectionString(d.attrs.connString)
	}
	if d.attrs.peerName != "" {
		span.SetNetPeerName(d.attrs.peerName).
			SetNetTransport(typedspan.NetTransportTCP)
	}
	if d.attrs.peerPort > 0 {
		span.SetNetPeerPort(d.attrs.peerPort)
	}
	return ctx, span
}

// finish ends span. sql.ErrNoRows is an empty result, not a failure.
func finish(span *typedspan.DbSQL, err error) {
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.Span().RecordError(err)
		span.Span().SetStatus(observability.StatusCodeError, err.Error())
	}
	span.End()
}

func traceExec(ctx context.Context, d *DB, target DBTX, query string, args []any) (sql.Result, error) {
	if !d.enabled {
		return target.ExecContext(ctx, query, args...)
	}

	ctx, span := d.start(ctx, query)
	result, err := target.ExecContext(ctx, query, args...)
	if err == nil {
		if affected, affErr := result.RowsAffected(); affErr == nil {
			span.Span().SetAttributes(observability.Int64("db.rows_affected", affected))
		}
	}
	finish(span, err)
	return result, err
}

func traceQuery(ctx context.Context, d *DB, target DBTX, query string, args []any) (*sql.Rows, error) {
	if !d.enabled {
		return target.QueryContext(ctx, query, args...)
	}

	ctx, span := d.start(ctx, query)
	rows, err := target.QueryContext(ctx, query, args...)
	finish(span, err)
	return rows, err
}

func traceQueryRow(ctx context.Context, d *DB, target DBTX, query string, args []any) *sql.Row {
	if !d.enabled {
		return target.QueryRowContext(ctx, query, args...)
	}

	ctx, span := d.start(ctx, query)
	row := target.QueryRowContext(ctx, query, args...)
	finish(span, row.Err())
	return row
}
