// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"tasker/internal/platform/store"
)

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows are the result set of a query
	Rows = store.Rows
	// Row is a single row result from a query
	Row = store.Row
	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// WithTx binds repo inside a transaction on tx and hands it to fn
// retryable failures rerun the whole transaction
func WithTx[T any](ctx context.Context, tx TxRunner, b Binder[T], fn func(ctx context.Context, repo T) error) error {
	return store.InTx(ctx, tx, func(ctx context.Context, q store.RowQuerier) error {
		return fn(ctx, MustBind(b, q))
	})
}
