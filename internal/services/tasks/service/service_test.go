package service

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	perr "tasker/internal/platform/errors"
	pnet "tasker/internal/platform/net"
	"tasker/internal/services/tasks/domain"
	"tasker/internal/services/tasks/repo/repotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brt = time.FixedZone("BRT", -3*3600)

// Wednesday 2024-01-10 10:00 in Sao Paulo
var wednesday = time.Date(2024, time.January, 10, 10, 0, 0, 0, brt)

type sink struct {
	mu  sync.Mutex
	got []domain.Extraction
}

func (s *sink) Record(_ context.Context, e domain.Extraction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, e)
}

func newSvc(t *testing.T, opts ...Option) (*Svc, *repotest.Mem, *sink) {
	t.Helper()
	mem := repotest.NewMem()
	sk := &sink{}
	opts = append([]Option{
		WithClock(func() time.Time { return wednesday }, brt),
		WithSink(sk),
	}, opts...)
	return New(&repotest.Tx{}, mem.Binder(), opts...), mem, sk
}

func TestNew_PanicsOnNilDeps(t *testing.T) {
	mem := repotest.NewMem()
	assert.Panics(t, func() { New(nil, mem.Binder()) })
	assert.Panics(t, func() { New(&repotest.Tx{}, nil) })
}

func TestParse_RecordsExtraction(t *testing.T) {
	svc, mem, sk := newSvc(t)
	ctx := pnet.WithSource(context.Background(), domain.SourceMCP)

	res, err := svc.Parse(ctx, "u1", "Levar meu pet amanhã de tarde", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "Levar meu pet", res.Title)
	assert.Equal(t, "2024-01-11", res.Date)
	assert.Equal(t, "15:00", res.Time)
	assert.Zero(t, mem.Len(), "parse must not store anything")

	require.Len(t, sk.got, 1)
	e := sk.got[0]
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, domain.SourceMCP, e.Source)
	assert.Equal(t, "amanha", e.Trace.DateRule())
	assert.Equal(t, "tarde", e.Trace.TimeRule())
	assert.Positive(t, e.Lexicon)
	assert.True(t, e.At.Equal(wednesday))
}

func TestParse_DefaultSource(t *testing.T) {
	svc, _, sk := newSvc(t, WithSource(domain.SourceCLI))
	_, err := svc.Parse(context.Background(), "u1", "Comprar pão", time.Time{})
	require.NoError(t, err)
	require.Len(t, sk.got, 1)
	assert.Equal(t, domain.SourceCLI, sk.got[0].Source)
}

func TestParse_EmptyText(t *testing.T) {
	svc, _, sk := newSvc(t)
	_, err := svc.Parse(context.Background(), "u1", "   ", time.Time{})
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
	assert.Empty(t, sk.got)
}

func TestDraft_DefaultsDateToToday(t *testing.T) {
	svc, _, _ := newSvc(t)
	got, err := svc.Draft(context.Background(), "u1", "me lembre de comprar leite", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "Comprar leite", got.Title)
	assert.Equal(t, "2024-01-10", got.Date)
	assert.Empty(t, got.Time)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "u1", got.UserID)
}

func TestDraft_TodayFollowsServiceZone(t *testing.T) {
	// 01:30 UTC on the 11th is still the 10th in Sao Paulo
	late := time.Date(2024, time.January, 11, 1, 30, 0, 0, time.UTC)
	svc, _, _ := newSvc(t, WithClock(func() time.Time { return late }, brt))
	got, err := svc.Draft(context.Background(), "u1", "Comprar pão", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", got.Date)
}

func TestCreateFromText_ThenRead(t *testing.T) {
	svc, mem, _ := newSvc(t)
	ctx := context.Background()

	a, err := svc.CreateFromText(ctx, "u1", "Reunião com Ana quinta às 14h", time.Time{})
	require.NoError(t, err)
	b, err := svc.CreateFromText(ctx, "u1", "Café quinta", time.Time{})
	require.NoError(t, err)
	_, err = svc.CreateFromText(ctx, "u2", "Yoga quinta às 7h", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, mem.Len())

	got, err := svc.Get(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = svc.Get(ctx, "u2", a.ID)
	assert.True(t, perr.IsNotFound(err), "other users never see the task")

	day, err := svc.ListByUserDate(ctx, "u1", "2024-01-11")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, a.ID, day[0].ID, "timed tasks come first")
	assert.Equal(t, b.ID, day[1].ID)

	all, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListByUserDate_BadDate(t *testing.T) {
	svc, _, _ := newSvc(t)
	_, err := svc.ListByUserDate(context.Background(), "u1", "2024-02-31")
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

func TestCreate_Validates(t *testing.T) {
	svc, _, _ := newSvc(t)
	tests := map[string]domain.Task{
		"no user":  {Title: "x", Date: "2024-01-10"},
		"no title": {UserID: "u1", Title: "  ", Date: "2024-01-10"},
		"bad date": {UserID: "u1", Title: "x", Date: "10/01/2024"},
		"bad time": {UserID: "u1", Title: "x", Date: "2024-01-10", Time: "25:00"},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), in)
			require.Error(t, err)
			assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument), "got %v", err)
		})
	}
}

func TestCreate_FillsDefaults(t *testing.T) {
	svc, _, _ := newSvc(t)
	got, err := svc.Create(context.Background(), domain.Task{UserID: "u1", Title: "ligar pro banco"})
	require.NoError(t, err)
	assert.Equal(t, "Ligar pro banco", got.Title)
	assert.Equal(t, "2024-01-10", got.Date)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestSetDone_AndDelete(t *testing.T) {
	svc, mem, _ := newSvc(t)
	ctx := context.Background()
	task, err := svc.CreateFromText(ctx, "u1", "Pagar o boleto amanhã", time.Time{})
	require.NoError(t, err)

	done, err := svc.SetDone(ctx, "u1", task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Done)

	_, err = svc.SetDone(ctx, "u2", task.ID, true)
	assert.True(t, perr.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, "u1", task.ID))
	_, err = svc.Get(ctx, "u1", task.ID)
	assert.True(t, perr.IsNotFound(err))
	raw, ok := mem.Raw(task.ID)
	require.True(t, ok, "soft delete keeps the row")
	assert.True(t, raw.Deleted)

	assert.True(t, perr.IsNotFound(svc.Delete(ctx, "u1", task.ID)))
	require.NoError(t, svc.HardDelete(ctx, "u1", task.ID))
	assert.Zero(t, mem.Len())
	require.NoError(t, svc.HardDelete(ctx, "u1", task.ID), "hard delete of a missing row is fine")
}

func TestUpsert_RunsInTx(t *testing.T) {
	mem := repotest.NewMem()
	tx := &repotest.Tx{}
	svc := New(tx, mem.Binder(), WithClock(func() time.Time { return wednesday }, brt))
	ctx := context.Background()

	in := domain.Task{ID: uuid.New(), UserID: "u1", Title: "dentista", Date: "2024-02-20", Time: "10:15"}
	out, err := svc.Upsert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Dentista", out.Title)
	assert.Equal(t, 1, tx.Calls)

	in.Done = true
	out, err = svc.Upsert(ctx, in)
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Equal(t, 1, mem.Len())

	in.UserID = "u2"
	_, err = svc.Upsert(ctx, in)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeConflict))
}

func TestRepoErrorsPropagate(t *testing.T) {
	svc, mem, _ := newSvc(t)
	mem.Err = perr.Unavailablef("db down")
	_, err := svc.CreateFromText(context.Background(), "u1", "Comprar pão", time.Time{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.Err))
}

func TestCalendarLink(t *testing.T) {
	svc, _, _ := newSvc(t, WithCalendar("America/Sao_Paulo", 30*time.Minute))
	ctx := context.Background()
	task, err := svc.CreateFromText(ctx, "u1", "Dentista dia 20/02 às 10 horas e 15", time.Time{})
	require.NoError(t, err)

	link, err := svc.CalendarLink(ctx, "u1", task.ID)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "Dentista", q.Get("text"))
	assert.Equal(t, "America/Sao_Paulo", q.Get("ctz"))
	assert.Equal(t, "20240220T101500/20240220T104500", q.Get("dates"))

	_, err = svc.CalendarLink(ctx, "u2", task.ID)
	assert.True(t, perr.IsNotFound(err))
}
