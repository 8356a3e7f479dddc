package repokit

import (
	"context"
	"fmt"
	"time"
)

// BeginHook runs at the start of a transaction with the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks wraps a TxRunner and runs hooks before fn inside the same tx
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return inner
	}
	return hookedTx{TxRunner: inner, hooks: hooks}
}

type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

// Tx starts a tx on the inner runner then runs all hooks before fn
func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// StatementTimeout bounds every statement of a Postgres transaction
func StatementTimeout(d time.Duration) BeginHook {
	ms := d.Milliseconds()
	return func(ctx context.Context, q Queryer) error {
		if ms <= 0 {
			return nil
		}
		if _, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", ms)); err != nil {
			return fmt.Errorf("statement timeout: %w", err)
		}
		return nil
	}
}
