package sqltrace

import (
	"context"
	"database/sql"
)

// DBTX is the query surface shared by DB and the transaction handed to
// Transact, so repositories work with either.
type DBTX interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
