// Package executor provides transaction-aware statement execution.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// Tx runs statements inside a database transaction. Statements bypass the
// prepared statement cache.
type Tx struct {
	tx *sqlx.Tx
	e  *Executor
}

// TxFunc is a function that runs within a transaction
type TxFunc func(tx *Tx) error

// Transaction executes fn within a database transaction. The transaction is
// rolled back when fn returns an error or panics and committed otherwise.
func (e *Executor) Transaction(ctx context.Context, opts *sql.TxOptions, fn TxFunc) error {
	sqlTx, err := e.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Tx{tx: sqlTx, e: e}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Exec executes a statement that returns no rows within the transaction
func (t *Tx) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	query = t.tx.Rebind(query)
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.e.record(query, args, start, err, false)
	if err != nil {
		return nil, fmt.Errorf("statement execution failed: %w", err)
	}
	return res, nil
}

// QueryMaps executes a query within the transaction and returns every row
// keyed by column name
func (t *Tx) QueryMaps(ctx context.Context, query string, args ...interface{}) (*Result, error) {
	query = t.tx.Rebind(query)
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.e.record(query, args, start, err, true)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()
	return scanMaps(rows)
}

// Run executes a rendered statement within the transaction, as a query when
// it is a SELECT and as an exec otherwise.
func (t *Tx) Run(ctx context.Context, q *sqlgen.Query) (*Result, error) {
	if isQuery(q.SQL) {
		return t.QueryMaps(ctx, q.SQL, q.Args...)
	}
	res, err := t.Exec(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return &Result{RowsAffected: affected}, nil
}
