package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tasker/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func TestOpen_BadURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "postgres://%zz"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return nil, errors.New("stop here")
	})
	mutated := false
	_, err := Open(context.Background(), Config{
		URL:      "postgres://u:p@localhost:5432/tasker",
		MaxConns: 7,
		AppName:  "tasker-api",
	}, nil, func(*pgxpool.Config) { mutated = true })
	if err == nil {
		t.Fatalf("expected pool error")
	}
	if seen == nil || seen.MaxConns != 7 || !mutated {
		t.Fatalf("config not applied: %+v mutated=%v", seen, mutated)
	}
	if seen.ConnConfig.RuntimeParams["application_name"] != "tasker-api" {
		t.Fatalf("application_name = %q", seen.ConnConfig.RuntimeParams["application_name"])
	}
}

func TestCompact(t *testing.T) {
	cases := map[string]string{
		"select 1":                                     "select 1",
		"  SELECT\t*\n FROM tasks\r\n WHERE id = $1  ": "SELECT * FROM tasks WHERE id = $1",
		"":                                             "",
	}
	for in, want := range cases {
		if got := compact(in); got != want {
			t.Fatalf("compact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTracer_Levels(t *testing.T) {
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf))

	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT 1", Args: []any{"Comprar pão"}, ElapsedUS: 1500})
	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT 2", ElapsedUS: 10, Err: errors.New("boom")})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("lines = %d: %s", len(lines), buf.String())
	}
	var first, second map[string]any
	_ = json.Unmarshal(lines[0], &first)
	_ = json.Unmarshal(lines[1], &second)
	if first["level"] != "info" || first["elapsed_ms"] != 1.5 || first["args"] != float64(1) {
		t.Fatalf("first %v", first)
	}
	if bytes.Contains(lines[0], []byte("Comprar")) {
		t.Fatalf("arg values leaked into log: %s", lines[0])
	}
	if second["level"] != "warn" || second["error"] != "boom" {
		t.Fatalf("second %v", second)
	}
}
