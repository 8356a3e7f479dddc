// Package repotest has an in-memory tasks repo for service and handler tests
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"tasker/internal/modkit/repokit"
	perr "tasker/internal/platform/errors"
	"tasker/internal/services/tasks/domain"
	"tasker/internal/services/tasks/repo"

	"github.com/google/uuid"
)

// Mem keeps tasks in a map and follows the Postgres repo semantics
type Mem struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
	Err   error // returned by every call when set
}

// NewMem returns an empty repo
func NewMem() *Mem { return &Mem{tasks: map[uuid.UUID]domain.Task{}} }

// Binder binds every Queryer to m
func (m *Mem) Binder() repokit.Binder[repo.Repo] {
	return repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
}

// Len counts stored rows, soft deleted included
func (m *Mem) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Raw returns a stored row ignoring ownership and deletion
func (m *Mem) Raw(id uuid.UUID) (domain.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	return t, ok
}

func (m *Mem) Insert(_ context.Context, t domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.tasks[t.ID]; ok {
		return perr.Conflictf("task %s already exists", t.ID)
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *Mem) Upsert(_ context.Context, t domain.Task) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return domain.Task{}, m.Err
	}
	if cur, ok := m.tasks[t.ID]; ok {
		if cur.UserID != t.UserID {
			return domain.Task{}, perr.Conflictf("task %s belongs to another user", t.ID)
		}
		t.CreatedAt = cur.CreatedAt
	}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *Mem) Get(_ context.Context, userID string, id uuid.UUID) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(userID, id)
}

func (m *Mem) ListByUser(_ context.Context, userID string) ([]domain.Task, error) {
	return m.filter(func(t domain.Task) bool { return t.UserID == userID })
}

func (m *Mem) ListByUserDate(_ context.Context, userID, date string) ([]domain.Task, error) {
	return m.filter(func(t domain.Task) bool { return t.UserID == userID && t.Date == date })
}

func (m *Mem) ListByDate(_ context.Context, date string) ([]domain.Task, error) {
	return m.filter(func(t domain.Task) bool { return t.Date == date })
}

func (m *Mem) SetDone(_ context.Context, userID string, id uuid.UUID, done bool, at time.Time) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.live(userID, id)
	if err != nil {
		return domain.Task{}, err
	}
	t.Done, t.UpdatedAt = done, at
	m.tasks[id] = t
	return t, nil
}

func (m *Mem) SoftDelete(_ context.Context, userID string, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.live(userID, id)
	if err != nil {
		return err
	}
	t.Deleted, t.UpdatedAt = true, at
	m.tasks[id] = t
	return nil
}

func (m *Mem) HardDelete(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if t, ok := m.tasks[id]; ok && t.UserID == userID {
		delete(m.tasks, id)
	}
	return nil
}

func (m *Mem) live(userID string, id uuid.UUID) (domain.Task, error) {
	if m.Err != nil {
		return domain.Task{}, m.Err
	}
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID || t.Deleted {
		return domain.Task{}, perr.NotFoundf("task %s not found", id)
	}
	return t, nil
}

func (m *Mem) filter(keep func(domain.Task) bool) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []domain.Task{}
	for _, t := range m.tasks {
		if !t.Deleted && keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if (a.Time == "") != (b.Time == "") {
			return b.Time == ""
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out, nil
}

var _ repo.Repo = (*Mem)(nil)

// Tx is a TxRunner that runs fn inline and never touches a database
type Tx struct{ Calls int }

func (x *Tx) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	return tag(0), nil
}

func (x *Tx) Query(context.Context, string, ...any) (repokit.Rows, error) {
	return nil, perr.Unavailablef("repotest: no database")
}

func (x *Tx) QueryRow(context.Context, string, ...any) repokit.Row { return nil }

func (x *Tx) Tx(_ context.Context, fn func(q repokit.Queryer) error) error {
	x.Calls++
	return fn(x)
}

type tag int64

func (t tag) RowsAffected() int64 { return int64(t) }

func (t tag) String() string { return "OK" }
