package repo

import (
	"context"
	"fmt"

	"tasker/internal/modkit/repokit"
)

// Schema creates the tasks table and its lookups
// dates and times are kept as the zero-padded strings the extractor returns
var Schema = []string{
	`create table if not exists tasks (
		id          uuid primary key,
		user_id     text not null,
		title       text not null check (title <> ''),
		description text not null default '',
		date        text not null check (date ~ '^\d{4}-\d{2}-\d{2}$'),
		time        text not null default '' check (time = '' or time ~ '^\d{2}:\d{2}$'),
		done        boolean not null default false,
		lat         double precision,
		lng         double precision,
		deleted     boolean not null default false,
		created_at  timestamptz not null default now(),
		updated_at  timestamptz not null default now()
	)`,
	`create index if not exists tasks_by_user on tasks (user_id)`,
	`create index if not exists tasks_by_date on tasks (date)`,
	`create index if not exists tasks_by_user_date on tasks (user_id, date)`,
}

// Migrate applies Schema, every statement is idempotent
func Migrate(ctx context.Context, q repokit.Queryer) error {
	for i, stmt := range Schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("tasks schema step %d: %w", i, err)
		}
	}
	return nil
}
