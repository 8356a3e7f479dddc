//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	perr "tasker/internal/platform/errors"
	"tasker/internal/platform/store"
	"tasker/internal/services/tasks/domain"

	"github.com/google/uuid"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) store.TxRunner {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	st, err := store.Open(ctx, store.Config{
		AppName: "tasker-tasks-integration",
		PG: store.PGConfig{
			Enabled: true,
			URL:     fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port()),
		},
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if err := Migrate(ctx, st.PG); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// twice, every step is idempotent
	if err := Migrate(ctx, st.PG); err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	return st.PG
}

func TestRepo_Integration(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	r := NewPG().Bind(db)

	now := time.Date(2024, time.January, 10, 13, 0, 0, 0, time.UTC)
	lat, lng := -23.55, -46.63
	mk := func(user, title, date, clock string, off time.Duration) domain.Task {
		return domain.Task{
			ID: uuid.New(), UserID: user, Title: title, Date: date, Time: clock,
			CreatedAt: now.Add(off), UpdatedAt: now.Add(off),
		}
	}
	untimed := mk("u1", "Café", "2024-01-11", "", 0)
	timed := mk("u1", "Reunião", "2024-01-11", "14:00", time.Second)
	timed.Lat, timed.Lng = &lat, &lng
	other := mk("u2", "Yoga", "2024-01-11", "07:00", 0)
	for _, x := range []domain.Task{untimed, timed, other} {
		if err := r.Insert(ctx, x); err != nil {
			t.Fatalf("insert %s: %v", x.Title, err)
		}
	}
	if err := r.Insert(ctx, timed); !perr.IsCode(err, perr.ErrorCodeDuplicateKey) && !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("duplicate insert = %v", err)
	}

	got, err := r.Get(ctx, "u1", timed.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Reunião" || got.Lat == nil || *got.Lat != lat {
		t.Fatalf("get = %+v", got)
	}
	if _, err := r.Get(ctx, "u2", timed.ID); !perr.IsNotFound(err) {
		t.Fatalf("foreign get = %v", err)
	}

	day, err := r.ListByUserDate(ctx, "u1", "2024-01-11")
	if err != nil || len(day) != 2 || day[0].ID != timed.ID {
		t.Fatalf("by user date = %+v, %v", day, err)
	}
	all, err := r.ListByDate(ctx, "2024-01-11")
	if err != nil || len(all) != 3 {
		t.Fatalf("by date = %d, %v", len(all), err)
	}

	done, err := r.SetDone(ctx, "u1", untimed.ID, true, now.Add(time.Hour))
	if err != nil || !done.Done || !done.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("set done = %+v, %v", done, err)
	}

	if err := r.SoftDelete(ctx, "u1", untimed.ID, now.Add(2*time.Hour)); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := r.Get(ctx, "u1", untimed.ID); !perr.IsNotFound(err) {
		t.Fatalf("deleted get = %v", err)
	}

	// sync revives a tombstone through upsert
	untimed.Title = "Café com Júlia"
	up, err := r.Upsert(ctx, untimed)
	if err != nil || up.Title != "Café com Júlia" || up.Deleted {
		t.Fatalf("upsert = %+v, %v", up, err)
	}
	stolen := untimed
	stolen.UserID = "u2"
	if _, err := r.Upsert(ctx, stolen); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("foreign upsert = %v", err)
	}

	if err := r.HardDelete(ctx, "u1", untimed.ID); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if err := r.HardDelete(ctx, "u1", untimed.ID); err != nil {
		t.Fatalf("hard delete twice: %v", err)
	}
	mine, err := r.ListByUser(ctx, "u1")
	if err != nil || len(mine) != 1 {
		t.Fatalf("by user = %+v, %v", mine, err)
	}

	if err := r.Insert(ctx, mk("u1", "x", "10/01/2024", "", 0)); err == nil {
		t.Fatalf("malformed date passed the check constraint")
	}
}
