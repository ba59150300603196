package sqltrace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JailtonJunior94/tracekit/pkg/typedspan"
)

const transactionOperation = "TRANSACTION"

// TxOption configures the transaction opened by Transact.
type TxOption func(*sql.TxOptions)

// WithIsolationLevel sets the transaction isolation level.
func WithIsolationLevel(level sql.IsolationLevel) TxOption {
	return func(o *sql.TxOptions) {
		o.Isolation = level
	}
}

// WithReadOnly marks the transaction read-only.
func WithReadOnly(readOnly bool) TxOption {
	return func(o *sql.TxOptions) {
		o.ReadOnly = readOnly
	}
}

// tracedTx runs queries inside a transaction with the same span treatment as
// DB.
type tracedTx struct {
	db *DB
	tx *sql.Tx
}

var _ DBTX = (*tracedTx)(nil)

func (t *tracedTx) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return t.tx.PrepareContext(ctx, query)
}

func (t *tracedTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return traceExec(ctx, t.db, t.tx, query, args)
}

func (t *tracedTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return traceQuery(ctx, t.db, t.tx, query, args)
}

func (t *tracedTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return traceQueryRow(ctx, t.db, t.tx, query, args)
}

// Transact runs fn inside a transaction. fn's error rolls the transaction
// back and is returned; a panic rolls back and is re-raised; otherwise the
// transaction commits. Queries issued through the DBTX handed to fn become
// children of a TRANSACTION span.
func (d *DB) Transact(ctx context.Context, fn func(ctx context.Context, tx DBTX) error, opts ...TxOption) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before transaction start: %w", err)
	}

	var span *typedspan.DbSQL
	if d.enabled {
		ctx, span = typedspan.StartDbSQL(ctx, d.tracer, transactionOperation)
		span.SetDBSystem(d.attrs.system).SetDBOperation(transactionOperation)
		defer func() { finish(span, err) }()
	}

	var txOptions *sql.TxOptions
	if len(opts) > 0 {
		txOptions = &sql.TxOptions{}
		for _, opt := range opts {
			opt(txOptions)
		}
	}

	tx, err := d.db.BeginTx(ctx, txOptions)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	done := false
	defer func() {
		if p := recover(); p != nil {
			if !done {
				_ = tx.Rollback()
			}
			panic(p)
		}
	}()

	if err = fn(ctx, &tracedTx{db: d, tx: tx}); err != nil {
		done = true
		if rbErr := rollback(tx); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err = ctx.Err(); err != nil {
		done = true
		_ = rollback(tx)
		return fmt.Errorf("context cancelled during transaction: %w", err)
	}

	done = true
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return errTxAlreadyDone
		}
		return err
	}
	return nil
}
