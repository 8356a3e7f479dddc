package store

import (
	"context"
	"errors"

	"tasker/internal/platform/store/ch"
)

// chClient is the part of *ch.CH the adapter needs
type chClient interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, q string, args ...any) (ch.Rows, error)
	Exec(ctx context.Context, q string, args ...any) error
	Ping(ctx context.Context) error
	Close() error
}

// clickhouseAdapter adapts *ch.CH to the store.Clickhouse interface
type clickhouseAdapter struct {
	inner chClient
}

var _ Clickhouse = (*clickhouseAdapter)(nil)

func newCHAdapter(c chClient) *clickhouseAdapter { return &clickhouseAdapter{inner: c} }

func (a *clickhouseAdapter) Insert(ctx context.Context, table string, rows [][]any) error {
	return a.inner.Insert(ctx, table, rows)
}

func (a *clickhouseAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	r, err := a.inner.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return &chRows{r: r}, nil
}

func (a *clickhouseAdapter) Exec(ctx context.Context, q string, args ...any) error {
	return a.inner.Exec(ctx, q, args...)
}

func (a *clickhouseAdapter) Ping(ctx context.Context) error {
	if a == nil || a.inner == nil {
		return errors.New("store: nil clickhouse adapter")
	}
	return a.inner.Ping(ctx)
}

func (a *clickhouseAdapter) Close() error { return a.inner.Close() }

// chRows wraps ch.Rows as store.Rows
type chRows struct{ r ch.Rows }

func (r *chRows) Next() bool             { return r.r.Next() }
func (r *chRows) Scan(dest ...any) error { return r.r.Scan(dest...) }
func (r *chRows) Err() error             { return r.r.Err() }
func (r *chRows) Close()                 { _ = r.r.Close() }
func (r *chRows) Columns() []string      { return r.r.Columns() }
