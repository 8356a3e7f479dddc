// Package repo keeps the local task copy in sqlite
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tasker/internal/modkit/repokit"
	perr "tasker/internal/platform/errors"
	"tasker/internal/platform/store"
	"tasker/internal/services/offline/domain"

	"github.com/google/uuid"
)

// Repo is the local storage surface
type Repo interface {
	Put(ctx context.Context, r domain.Record) error
	Get(ctx context.Context, id uuid.UUID) (domain.Record, error)
	All(ctx context.Context) ([]domain.Record, error)
	ByUser(ctx context.Context, user string) ([]domain.Record, error)
	ByUserDate(ctx context.Context, user, date string) ([]domain.Record, error)
	ByDate(ctx context.Context, date string) ([]domain.Record, error)
	SetDone(ctx context.Context, id uuid.UUID, done bool, at time.Time) error
	MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	MarkSynced(ctx context.Context, id uuid.UUID) error
	Pending(ctx context.Context, user string) ([]domain.Record, error)
	Tombstones(ctx context.Context, user string) ([]domain.Record, error)
}

type (
	// Lite implements the Repo interface using sqlite
	Lite struct{}

	queries struct{ q repokit.Queryer }
)

// NewLite creates a sqlite repository binder
func NewLite() repokit.Binder[Repo] { return Lite{} }

// Bind binds a sqlite queryer to the Repo implementation
func (Lite) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const columns = `id, user_id, title, description, date, time, done, lat, lng, deleted, synced, only_done_update, created_at, updated_at`

// live records sort like the remote: by date, timed first, then creation
const order = ` ORDER BY date, time = '', time, created_at`

const stamp = time.RFC3339Nano

func scanRecord(row store.Row) (domain.Record, error) {
	var (
		r                  domain.Record
		id, created, upd   string
		lat, lng           sql.NullFloat64
		done, del, syn, od bool
	)
	err := row.Scan(&id, &r.UserID, &r.Title, &r.Description, &r.Date, &r.Time,
		&done, &lat, &lng, &del, &syn, &od, &created, &upd)
	if err != nil {
		return r, err
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return r, fmt.Errorf("offline: bad id %q: %w", id, err)
	}
	if r.CreatedAt, err = time.Parse(stamp, created); err != nil {
		return r, fmt.Errorf("offline: bad created_at %q: %w", created, err)
	}
	if r.UpdatedAt, err = time.Parse(stamp, upd); err != nil {
		return r, fmt.Errorf("offline: bad updated_at %q: %w", upd, err)
	}
	r.Done, r.Deleted, r.Synced, r.OnlyDone = done, del, syn, od
	r.Lat, r.Lng = floatPtr(lat), floatPtr(lng)
	return r, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// Put writes r as is, replacing any row with the same id
func (r *queries) Put(ctx context.Context, rec domain.Record) error {
	const q = `
INSERT INTO tasks (` + columns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	user_id = excluded.user_id,
	title = excluded.title,
	description = excluded.description,
	date = excluded.date,
	time = excluded.time,
	done = excluded.done,
	lat = excluded.lat,
	lng = excluded.lng,
	deleted = excluded.deleted,
	synced = excluded.synced,
	only_done_update = excluded.only_done_update,
	updated_at = excluded.updated_at`
	_, err := r.q.Exec(ctx, q,
		rec.ID.String(), rec.UserID, rec.Title, rec.Description, rec.Date, rec.Time,
		rec.Done, nullFloat(rec.Lat), nullFloat(rec.Lng), rec.Deleted, rec.Synced, rec.OnlyDone,
		rec.CreatedAt.UTC().Format(stamp), rec.UpdatedAt.UTC().Format(stamp),
	)
	return perr.FromSQLite(err, "put task")
}

// Get returns a record even when it is a tombstone
func (r *queries) Get(ctx context.Context, id uuid.UUID) (domain.Record, error) {
	rec, err := store.One(ctx, r.q, scanRecord, `SELECT `+columns+` FROM tasks WHERE id = ?`, id.String())
	if perr.IsNotFound(err) {
		return rec, perr.NotFoundf("task %s not found", id)
	}
	return rec, err
}

func (r *queries) All(ctx context.Context) ([]domain.Record, error) {
	return r.many(ctx, `WHERE deleted = 0`)
}

func (r *queries) ByUser(ctx context.Context, user string) ([]domain.Record, error) {
	return r.many(ctx, `WHERE user_id = ? AND deleted = 0`, user)
}

func (r *queries) ByUserDate(ctx context.Context, user, date string) ([]domain.Record, error) {
	return r.many(ctx, `WHERE user_id = ? AND date = ? AND deleted = 0`, user, date)
}

func (r *queries) ByDate(ctx context.Context, date string) ([]domain.Record, error) {
	return r.many(ctx, `WHERE date = ? AND deleted = 0`, date)
}

// SetDone flips done and queues the change, a never synced row stays a full upsert
func (r *queries) SetDone(ctx context.Context, id uuid.UUID, done bool, at time.Time) error {
	err := store.ExecOne(ctx, r.q, `
UPDATE tasks SET
	done = ?,
	only_done_update = CASE WHEN synced = 1 THEN 1 ELSE only_done_update END,
	synced = 0,
	updated_at = ?
WHERE id = ? AND deleted = 0`, done, at.UTC().Format(stamp), id.String())
	return notFound(err, id)
}

// MarkDeleted turns the row into a tombstone waiting for sync
func (r *queries) MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := store.ExecOne(ctx, r.q, `
UPDATE tasks SET deleted = 1, synced = 0, updated_at = ?
WHERE id = ? AND deleted = 0`, at.UTC().Format(stamp), id.String())
	return notFound(err, id)
}

// HardDelete removes the row, a missing row is fine
func (r *queries) HardDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.q.Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	return perr.FromSQLite(err, "delete task")
}

// MarkSynced clears the pending flags
func (r *queries) MarkSynced(ctx context.Context, id uuid.UUID) error {
	err := store.ExecOne(ctx, r.q, `UPDATE tasks SET synced = 1, only_done_update = 0 WHERE id = ?`, id.String())
	return notFound(err, id)
}

// Pending lists live unsynced records, every user when user is empty
func (r *queries) Pending(ctx context.Context, user string) ([]domain.Record, error) {
	return r.scoped(ctx, `synced = 0 AND deleted = 0`, user)
}

// Tombstones lists deleted records still present locally
func (r *queries) Tombstones(ctx context.Context, user string) ([]domain.Record, error) {
	return r.scoped(ctx, `deleted = 1`, user)
}

func (r *queries) scoped(ctx context.Context, cond, user string) ([]domain.Record, error) {
	if user == "" {
		return r.many(ctx, `WHERE `+cond)
	}
	return r.many(ctx, `WHERE user_id = ? AND `+cond, user)
}

func (r *queries) many(ctx context.Context, where string, args ...any) ([]domain.Record, error) {
	out, err := store.Many(ctx, r.q, scanRecord, `SELECT `+columns+` FROM tasks `+where+order, args...)
	if err != nil {
		return nil, perr.FromSQLite(err, "list tasks")
	}
	if out == nil {
		out = []domain.Record{}
	}
	return out, nil
}

func notFound(err error, id uuid.UUID) error {
	if perr.IsNotFound(err) {
		return perr.NotFoundf("task %s not found", id)
	}
	return perr.FromSQLite(err, "update task")
}
