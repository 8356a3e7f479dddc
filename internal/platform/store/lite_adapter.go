package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqlConn is what *sql.DB and *sql.Tx share
type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// liteAdapter puts a database/sql handle behind RowQuerier + TxRunner
type liteAdapter struct {
	db *sql.DB
}

// NewSQL adapts an open *sql.DB, used for the sqlite store and tests
func NewSQL(db *sql.DB) TxRunner { return &liteAdapter{db: db} }

func (a *liteAdapter) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return sqlExec(ctx, a.db, q, args...)
}

func (a *liteAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return sqlQuery(ctx, a.db, q, args...)
}

func (a *liteAdapter) QueryRow(ctx context.Context, q string, args ...any) Row {
	return a.db.QueryRowContext(ctx, q, args...)
}

func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlTx{tx: tx}); err != nil {
		if rb := tx.Rollback(); rb != nil && !errors.Is(rb, sql.ErrTxDone) {
			return errors.Join(err, rb)
		}
		return err
	}
	return tx.Commit()
}

func (a *liteAdapter) Ping(ctx context.Context) error { return a.db.PingContext(ctx) }

func (a *liteAdapter) Close() error { return a.db.Close() }

type sqlTx struct{ tx *sql.Tx }

func (t sqlTx) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return sqlExec(ctx, t.tx, q, args...)
}

func (t sqlTx) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return sqlQuery(ctx, t.tx, q, args...)
}

func (t sqlTx) QueryRow(ctx context.Context, q string, args ...any) Row {
	return t.tx.QueryRowContext(ctx, q, args...)
}

func sqlExec(ctx context.Context, c sqlConn, q string, args ...any) (CommandTag, error) {
	res, err := c.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	return sqlTag(n), nil
}

func sqlQuery(ctx context.Context, c sqlConn, q string, args ...any) (Rows, error) {
	rs, err := c.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{r: rs}, nil
}

type sqlRows struct{ r *sql.Rows }

func (x sqlRows) Next() bool            { return x.r.Next() }
func (x sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x sqlRows) Err() error            { return x.r.Err() }
func (x sqlRows) Close()                { _ = x.r.Close() }
func (x sqlRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

// sqlTag reports affected rows the way pg command tags print them
type sqlTag int64

func (t sqlTag) String() string      { return fmt.Sprintf("ROWS %d", int64(t)) }
func (t sqlTag) RowsAffected() int64 { return int64(t) }
