package store

import (
	"context"
	"fmt"
	"time"

	chx "tasker/internal/platform/store/ch"
	"tasker/internal/platform/store/lite"
	"tasker/internal/platform/store/pg"
)

const (
	defaultConnectRetries = 20
	defaultPingTimeout    = 3 * time.Second
	backoffStart          = 150 * time.Millisecond
	backoffCeiling        = 2 * time.Second
)

var sleep = time.Sleep // seam

// openPG opens the pool and publishes the adapter once a ping succeeds
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = defaultConnectRetries
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(toCtx) // pool ping, so no trace line
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Msg("postgres not ready")
		sleep(backoff)
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, Tag: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openLite(ctx context.Context, cfg Config, _ *Store) (TxRunner, error) {
	db, err := lite.Open(ctx, lite.Config{Path: cfg.Lite.Path, BusyTimeout: cfg.Lite.BusyTimeout})
	if err != nil {
		return nil, err
	}
	return NewSQL(db), nil
}
