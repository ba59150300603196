package sqltrace_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JailtonJunior94/tracekit/pkg/agentconfig"
	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/observability/fake"
	"github.com/JailtonJunior94/tracekit/pkg/sqltrace"
	"github.com/JailtonJunior94/tracekit/pkg/typedspan"
)

func openSQLite(t *testing.T, tracer observability.Tracer, opts ...sqltrace.Option) *sqltrace.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	opts = append([]sqltrace.Option{sqltrace.WithDBSystem(typedspan.DBSystemSqlite), sqltrace.WithDBName("main")}, opts...)
	db, err := sqltrace.Open("sqlite3", dsn, tracer, opts...)
	require.NoError(t, err)
	db.Raw().SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Raw().Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestExecContext(t *testing.T) {
	tracer := fake.NewFakeTracer()
	db := openSQLite(t, tracer, sqltrace.WithDBUser("app"))

	result, err := db.ExecContext(context.Background(), "INSERT INTO items (name) VALUES (?)", "pen")
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	spans := tracer.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "INSERT", span.Name)
	assert.Equal(t, observability.SpanKindClient, span.Kind)
	assert.Equal(t, 1, span.EndCount())
	assert.Equal(t, map[string]any{
		typedspan.DBSystemKey:    typedspan.DBSystemSqlite,
		typedspan.DBNameKey:      "main",
		typedspan.DBUserKey:      "app",
		typedspan.DBStatementKey: "INSERT INTO items (name) VALUES (?)",
		typedspan.DBOperationKey: "INSERT",
		typedspan.DBSQLTableKey:  "items",
		"db.rows_affected":       int64(1),
	}, span.AttributeMap())
}

func TestQueryContext(t *testing.T) {
	tracer := fake.NewFakeTracer()
	db := openSQLite(t, tracer)

	_, err := db.ExecContext(context.Background(), "INSERT INTO items (name) VALUES (?), (?)", "pen", "ink")
	require.NoError(t, err)

	rows, err := db.QueryContext(context.Background(), "SELECT name FROM items ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"pen", "ink"}, names)

	spans := tracer.SpansNamed("SELECT")
	require.Len(t, spans, 1)
	tableName, _ := spans[0].Attribute(typedspan.DBSQLTableKey)
	assert.Equal(t, "items", tableName)
}

func TestQueryRowContext(t *testing.T) {
	tracer := fake.NewFakeTracer()
	db := openSQLite(t, tracer)

	var name string
	err := db.QueryRowContext(context.Background(), "SELECT name FROM items WHERE id = ?", 99).Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	span := tracer.SpansNamed("SELECT")[0]
	assert.Equal(t, observability.StatusCodeUnset, span.Status, "no rows is not a failure")
	assert.True(t, span.Ended())
}

func TestQueryError(t *testing.T) {
	tracer := fake.NewFakeTracer()
	db := openSQLite(t, tracer)

	_, err := db.QueryContext(context.Background(), "SELECT * FROM missing")
	require.Error(t, err)

	span := tracer.SpansNamed("SELECT")[0]
	assert.Equal(t, observability.StatusCodeError, span.Status)
	assert.Error(t, span.RecordedErr)
	tableName, _ := span.Attribute(typedspan.DBSQLTableKey)
	assert.Equal(t, "missing", tableName)
}

func TestSpansAreChildrenOfCurrentSpan(t *testing.T) {
	tracer := fake.NewFakeTracer()
	db := openSQLite(t, tracer)

	ctx, parent := tracer.Start(context.Background(), "handler")
	_, err := db.ExecContext(ctx, "DELETE FROM items")
	require.NoError(t, err)

	assert.Equal(t, parent.Context().SpanID(), tracer.SpansNamed("DELETE")[0].ParentSpanID)
}

func TestDisabledInstrumentation(t *testing.T) {
	tracer := fake.NewFakeTracer()
	config := agentconfig.Default()
	config.DisabledInstrumentations = []string{"SQL"}
	db := openSQLite(t, tracer, sqltrace.WithAgentConfig(config))

	_, err := db.ExecContext(context.Background(), "INSERT INTO items (name) VALUES ('pen')")
	require.NoError(t, err)
	err = db.Transact(context.Background(), func(ctx context.Context, tx sqltrace.DBTX) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM items")
		return err
	})
	require.NoError(t, err)

	assert.Empty(t, tracer.GetSpans())
}

func TestTransact(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		tracer := fake.NewFakeTracer()
		db := openSQLite(t, tracer)

		err := db.Transact(context.Background(), func(ctx context.Context, tx sqltrace.DBTX) error {
			_, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES ('pen')")
			return err
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.Raw().QueryRow("SELECT COUNT(*) FROM items").Scan(&count))
		assert.Equal(t, 1, count)

		txSpan := tracer.SpansNamed("TRANSACTION")
		require.Len(t, txSpan, 1)
		assert.Equal(t, 1, txSpan[0].EndCount())
		assert.Equal(t, txSpan[0].Context().SpanID(), tracer.SpansNamed("INSERT")[0].ParentSpanID)
	})

	t.Run("rollback on error", func(t *testing.T) {
		tracer := fake.NewFakeTracer()
		db := openSQLite(t, tracer)
		want := errors.New("validation failed")

		err := db.Transact(context.Background(), func(ctx context.Context, tx sqltrace.DBTX) error {
			if _, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES ('pen')"); err != nil {
				return err
			}
			return want
		})
		assert.ErrorIs(t, err, want)

		var count int
		require.NoError(t, db.Raw().QueryRow("SELECT COUNT(*) FROM items").Scan(&count))
		assert.Zero(t, count)

		txSpan := tracer.SpansNamed("TRANSACTION")[0]
		assert.Equal(t, observability.StatusCodeError, txSpan.Status)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		tracer := fake.NewFakeTracer()
		db := openSQLite(t, tracer)

		assert.PanicsWithValue(t, "boom", func() {
			_ = db.Transact(context.Background(), func(ctx context.Context, tx sqltrace.DBTX) error {
				_, _ = tx.ExecContext(ctx, "INSERT INTO items (name) VALUES ('pen')")
				panic("boom")
			})
		})

		var count int
		require.NoError(t, db.Raw().QueryRow("SELECT COUNT(*) FROM items").Scan(&count))
		assert.Zero(t, count)
		assert.True(t, tracer.SpansNamed("TRANSACTION")[0].Ended())
	})

	t.Run("cancelled context", func(t *testing.T) {
		db := openSQLite(t, fake.NewFakeTracer())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := db.Transact(ctx, func(context.Context, sqltrace.DBTX) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestOpenValidation(t *testing.T) {
	_, err := sqltrace.Open("sqlite3", "", fake.NewFakeTracer())
	assert.ErrorIs(t, err, sqltrace.ErrEmptyDSN)

	_, err = sqltrace.New(nil, fake.NewFakeTracer())
	assert.ErrorIs(t, err, sqltrace.ErrNilDB)
}

func TestOpenPostgresDriverRegistered(t *testing.T) {
	db, err := sqltrace.Open(sqltrace.DriverPostgres, "postgres://app@localhost:5432/orders?sslmode=disable", fake.NewFakeTracer(),
		sqltrace.WithPeer("localhost", 5432),
		sqltrace.WithConnectionString("postgres://localhost:5432/orders"),
	)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}
