package syncer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tasker/internal/platform/store"
	"tasker/internal/platform/store/lite"
	offline "tasker/internal/services/offline/domain"
	olrepo "tasker/internal/services/offline/repo"
	olsvc "tasker/internal/services/offline/service"
	tasks "tasker/internal/services/tasks/domain"
	"tasker/internal/services/tasks/repo/repotest"
	tsvc "tasker/internal/services/tasks/service"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brt = time.FixedZone("BRT", -3*3600)

func clock() time.Time { return time.Date(2024, time.January, 10, 10, 0, 0, 0, brt) }

func setup(t *testing.T) (*olsvc.Svc, *tsvc.Svc, *repotest.Mem, string) {
	t.Helper()
	ctx := context.Background()
	db, err := lite.Open(ctx, lite.Config{Path: lite.Memory})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	tx := store.NewSQL(db)
	require.NoError(t, olrepo.Migrate(ctx, tx))

	mem := repotest.NewMem()
	remote := tsvc.New(&repotest.Tx{}, mem.Binder(), tsvc.WithClock(clock, brt))
	local := olsvc.New(tx, nil, olsvc.WithClock(clock, brt))
	return local, remote, mem, filepath.Join(t.TempDir(), "sync.lock")
}

func TestRun_FullCycle(t *testing.T) {
	local, remote, mem, lock := setup(t)
	ctx := context.Background()

	a, err := local.AddText(ctx, "u1", "Levar meu pet amanhã de tarde", time.Time{})
	require.NoError(t, err)
	b, err := local.AddText(ctx, "u1", "Comprar pão", time.Time{})
	require.NoError(t, err)

	s := New(local, remote, Options{LockPath: lock})
	rep, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Sent: 2}, rep)
	assert.Equal(t, "Sincronização concluída: 2 enviada(s)", rep.Message())
	assert.Equal(t, 2, mem.Len())

	got, err := remote.Get(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Levar meu pet", got.Title)
	assert.Equal(t, "15:00", got.Time)

	// nothing pending, nothing sent
	rep, err = s.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, rep.Total())
	assert.Equal(t, "Nada para sincronizar", rep.Message())

	_, err = local.SetDone(ctx, a.ID, true)
	require.NoError(t, err)
	require.NoError(t, local.MarkDeleted(ctx, b.ID))

	rep, err = s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Updated: 1, Deleted: 1}, rep)
	assert.Equal(t, "Sincronização concluída: 1 atualizada(s) · 1 excluída(s)", rep.Message())

	got, err = remote.Get(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)
	assert.Equal(t, 1, mem.Len())

	_, err = local.Get(ctx, b.ID)
	assert.Error(t, err, "tombstone is gone locally")
}

type flaky struct {
	Remote
	fail uuid.UUID
}

func (f flaky) Upsert(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	if t.ID == f.fail {
		return tasks.Task{}, errors.New("remote down")
	}
	return f.Remote.Upsert(ctx, t)
}

func TestRun_FailureKeepsTaskPending(t *testing.T) {
	local, remote, _, lock := setup(t)
	ctx := context.Background()

	bad, err := local.AddText(ctx, "u1", "Pagar boleto", time.Time{})
	require.NoError(t, err)
	_, err = local.AddText(ctx, "u1", "Comprar pão", time.Time{})
	require.NoError(t, err)

	rep, err := New(local, flaky{Remote: remote, fail: bad.ID}, Options{LockPath: lock}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Sent: 1, Failed: 1}, rep)
	assert.Contains(t, rep.Message(), "1 falha(s)")

	pending, err := local.Pending(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, bad.ID, pending[0].ID)

	rep, err = New(local, remote, Options{LockPath: lock}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Sent: 1}, rep)
}

func TestRun_UserScope(t *testing.T) {
	local, remote, mem, lock := setup(t)
	ctx := context.Background()
	for _, u := range []string{"u1", "u2"} {
		_, err := local.AddText(ctx, u, "Comprar pão", time.Time{})
		require.NoError(t, err)
	}
	rep, err := New(local, remote, Options{LockPath: lock, User: "u2"}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Sent)
	assert.Equal(t, 1, mem.Len())
}

func TestRun_Busy(t *testing.T) {
	local, remote, _, lock := setup(t)
	held := flock.New(lock)
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	_, err = New(local, remote, Options{LockPath: lock}).Run(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
}

func TestNew_Panics(t *testing.T) {
	local, remote, _, _ := setup(t)
	assert.Panics(t, func() { New(nil, remote, Options{LockPath: "x"}) })
	assert.Panics(t, func() { New(local, remote, Options{}) })
}

func TestReport_Message(t *testing.T) {
	tests := []struct {
		r    Report
		want string
	}{
		{Report{}, "Nada para sincronizar"},
		{Report{Sent: 3, Updated: 1, Deleted: 2}, "Sincronização concluída: 3 enviada(s) · 1 atualizada(s) · 2 excluída(s)"},
		{Report{Deleted: 1}, "Sincronização concluída: 1 excluída(s)"},
		{Report{Failed: 2}, "Nada para sincronizar (2 falha(s))"},
	}
	for _, tc := range tests {
		if got := tc.r.Message(); got != tc.want {
			t.Fatalf("Message(%+v) = %q, want %q", tc.r, got, tc.want)
		}
	}
}

var _ Local = (offline.StorePort)(nil)
