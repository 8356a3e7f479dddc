// Package repo provides postgres access for tasks
package repo

import (
	"context"
	"time"

	"tasker/internal/modkit/repokit"
	perr "tasker/internal/platform/errors"
	"tasker/internal/platform/store"
	"tasker/internal/services/tasks/domain"

	"github.com/google/uuid"
)

// Repo defines the repository contract for tasks
// reads skip soft deleted rows unless they say otherwise
type Repo interface {
	Insert(ctx context.Context, t domain.Task) error
	Upsert(ctx context.Context, t domain.Task) (domain.Task, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (domain.Task, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Task, error)
	ListByUserDate(ctx context.Context, userID, date string) ([]domain.Task, error)
	ListByDate(ctx context.Context, date string) ([]domain.Task, error)
	SetDone(ctx context.Context, userID string, id uuid.UUID, done bool, at time.Time) (domain.Task, error)
	SoftDelete(ctx context.Context, userID string, id uuid.UUID, at time.Time) error
	HardDelete(ctx context.Context, userID string, id uuid.UUID) error
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const columns = `id, user_id, title, description, date, time, done, lat, lng, deleted, created_at, updated_at`

func scanTask(r store.Row) (domain.Task, error) {
	var t domain.Task
	err := r.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Date,
		&t.Time,
		&t.Done,
		&t.Lat,
		&t.Lng,
		&t.Deleted,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *queries) Insert(ctx context.Context, t domain.Task) error {
	const sql = `
insert into tasks (` + columns + `)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := r.q.Exec(ctx, sql,
		t.ID, t.UserID, t.Title, t.Description, t.Date, t.Time, t.Done,
		t.Lat, t.Lng, t.Deleted, t.CreatedAt, t.UpdatedAt,
	)
	return perr.FromPostgres(err, "insert task")
}

// Upsert writes t as sent by a client, a row owned by another user is left alone
func (r *queries) Upsert(ctx context.Context, t domain.Task) (domain.Task, error) {
	const sql = `
insert into tasks (` + columns + `)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, $10, $11)
on conflict (id) do update set
	title = excluded.title,
	description = excluded.description,
	date = excluded.date,
	time = excluded.time,
	done = excluded.done,
	lat = excluded.lat,
	lng = excluded.lng,
	deleted = false,
	updated_at = excluded.updated_at
where tasks.user_id = excluded.user_id
returning ` + columns
	out, err := store.One(ctx, r.q, scanTask, sql,
		t.ID, t.UserID, t.Title, t.Description, t.Date, t.Time, t.Done,
		t.Lat, t.Lng, t.CreatedAt, t.UpdatedAt,
	)
	if perr.IsNotFound(err) {
		return domain.Task{}, perr.Conflictf("task %s belongs to another user", t.ID)
	}
	return out, perr.FromPostgres(err, "upsert task")
}

func (r *queries) Get(ctx context.Context, userID string, id uuid.UUID) (domain.Task, error) {
	const sql = `select ` + columns + ` from tasks where user_id = $1 and id = $2 and not deleted`
	t, err := store.One(ctx, r.q, scanTask, sql, userID, id)
	if perr.IsNotFound(err) {
		return t, perr.NotFoundf("task %s not found", id)
	}
	return t, err
}

func (r *queries) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	const sql = `
select ` + columns + `
from tasks
where user_id = $1 and not deleted
order by date, time = '', time, created_at
`
	return store.Many(ctx, r.q, scanTask, sql, userID)
}

func (r *queries) ListByUserDate(ctx context.Context, userID, date string) ([]domain.Task, error) {
	const sql = `
select ` + columns + `
from tasks
where user_id = $1 and date = $2 and not deleted
order by time = '', time, created_at
`
	return store.Many(ctx, r.q, scanTask, sql, userID, date)
}

// ListByDate is the operator view of one day across users
func (r *queries) ListByDate(ctx context.Context, date string) ([]domain.Task, error) {
	const sql = `
select ` + columns + `
from tasks
where date = $1 and not deleted
order by user_id, time = '', time, created_at
`
	return store.Many(ctx, r.q, scanTask, sql, date)
}

func (r *queries) SetDone(ctx context.Context, userID string, id uuid.UUID, done bool, at time.Time) (domain.Task, error) {
	const sql = `
update tasks set done = $3, updated_at = $4
where user_id = $1 and id = $2 and not deleted
returning ` + columns
	t, err := store.One(ctx, r.q, scanTask, sql, userID, id, done, at)
	if perr.IsNotFound(err) {
		return t, perr.NotFoundf("task %s not found", id)
	}
	return t, err
}

func (r *queries) SoftDelete(ctx context.Context, userID string, id uuid.UUID, at time.Time) error {
	const sql = `update tasks set deleted = true, updated_at = $3 where user_id = $1 and id = $2 and not deleted`
	err := store.ExecOne(ctx, r.q, sql, userID, id, at)
	if perr.IsNotFound(err) {
		return perr.NotFoundf("task %s not found", id)
	}
	return err
}

// HardDelete removes the row, deleting a missing row is not an error so tombstone sync can retry
func (r *queries) HardDelete(ctx context.Context, userID string, id uuid.UUID) error {
	const sql = `delete from tasks where user_id = $1 and id = $2`
	_, err := r.q.Exec(ctx, sql, userID, id)
	return err
}
