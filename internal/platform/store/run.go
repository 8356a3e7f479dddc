package store

import (
	"context"
	"time"

	perr "tasker/internal/platform/errors"
)

const (
	retryAttempts       = 5
	retryInitialBackoff = 10 * time.Millisecond
	retryMaxBackoff     = 200 * time.Millisecond
)

// Retry runs op until it succeeds, fails with a non retryable error or runs out of attempts
// busy sqlite files, serialization failures and deadlocks count as retryable
func Retry(ctx context.Context, op func() error) error {
	delay := retryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !perr.Retryable(lastErr) || attempt == retryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, retryMaxBackoff)
	}
	return lastErr
}

// InTx runs fn inside a transaction on tx, retrying the whole transaction on retryable errors
func InTx(ctx context.Context, tx TxRunner, fn func(ctx context.Context, q RowQuerier) error) error {
	return Retry(ctx, func() error {
		return tx.Tx(ctx, func(q RowQuerier) error { return fn(ctx, q) })
	})
}
