package store

import (
	"context"
	"errors"
	"time"

	"tasker/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgConn is what the pool and a pgx.Tx share
type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgQuerier runs statements on a pool or tx and reports them to the tracer
type pgQuerier struct {
	c      pgConn
	tracer pg.QueryTracer
	slowUS int64
}

func (q pgQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.c.Exec(ctx, sql, args...)
	q.emit(ctx, sql, args, start, err)
	return tag{ct}, err
}

func (q pgQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.c.Query(ctx, sql, args...)
	q.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (q pgQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := q.c.QueryRow(ctx, sql, args...)
	// emitted after Scan so the scan error is reported
	return row{r: r, after: func(err error) { q.emit(ctx, sql, args, start, err) }}
}

func (q pgQuerier) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if q.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	q.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      q.slowUS >= 0 && elapsedUS >= q.slowUS,
	})
}

// pgAdapter wraps pg.PG and implements TxRunner
type pgAdapter struct {
	pgQuerier
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		pgQuerier: pgQuerier{c: p.Pool, tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000},
		p:         p,
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	q := a.pgQuerier
	q.c = tx
	if err := fn(q); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct{ r pgx.Rows }

func (x rows) Next() bool            { return x.r.Next() }
func (x rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rows) Err() error            { return x.r.Err() }
func (x rows) Close()                { x.r.Close() }
func (x rows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}

type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }
