// Package lite opens the local sqlite database through modernc.org/sqlite
package lite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Memory opens a private in-memory database
const Memory = ":memory:"

// DefaultBusyTimeout applies when Config leaves it zero
const DefaultBusyTimeout = 5 * time.Second

// Config configures the sqlite file
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// Open creates parent directories, opens Path and applies the connection pragmas
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("lite: empty path")
	}
	if cfg.Path != Memory {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("lite: create dir: %w", err)
		}
	}
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = DefaultBusyTimeout
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("lite: open %s: %w", cfg.Path, err)
	}
	// every new in-memory connection would be a different database
	if cfg.Path == Memory {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("lite: apply pragma %q: %w", pragma, err)
		}
	}
	return db, nil
}
