package sqltrace

import "errors"

var (
	ErrNilDB         = errors.New("sqltrace: database cannot be nil")
	ErrEmptyDSN      = errors.New("sqltrace: dsn cannot be empty")
	errTxAlreadyDone = errors.New("sqltrace: transaction has already been committed or rolled back")
)
