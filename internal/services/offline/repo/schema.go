package repo

import (
	"context"
	"fmt"

	"tasker/internal/modkit/repokit"
)

// Schema creates the local tasks table and the lookups the app uses
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		title            TEXT NOT NULL CHECK (title <> ''),
		description      TEXT NOT NULL DEFAULT '',
		date             TEXT NOT NULL,
		time             TEXT NOT NULL DEFAULT '',
		done             INTEGER NOT NULL DEFAULT 0,
		lat              REAL,
		lng              REAL,
		deleted          INTEGER NOT NULL DEFAULT 0,
		synced           INTEGER NOT NULL DEFAULT 0,
		only_done_update INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_by_user ON tasks (user_id)`,
	`CREATE INDEX IF NOT EXISTS tasks_by_date ON tasks (date)`,
	`CREATE INDEX IF NOT EXISTS tasks_by_user_date ON tasks (user_id, date)`,
}

// Migrate applies Schema inside one transaction
func Migrate(ctx context.Context, db repokit.TxRunner) error {
	return db.Tx(ctx, func(q repokit.Queryer) error {
		for i, stmt := range Schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("offline schema step %d: %w", i, err)
			}
		}
		return nil
	})
}
