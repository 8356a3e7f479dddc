package ch

import (
	"context"
	"errors"
	"testing"

	"tasker/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

func TestBuildClientInfo(t *testing.T) {
	info := BuildClientInfo(" cli ", "")
	got := map[string]string{}
	for _, p := range info.Products {
		got[p.Name] = p.Version
	}
	if got["tasker"] != "dev" || got["role"] != "cli" || got["go"] == "" {
		t.Fatalf("products %+v", got)
	}
}

func TestOpen_BadDSN(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatalf("expected dsn error")
	}
}

func TestOpen_DriverError(t *testing.T) {
	testkit.Swap(t, &openConn, func(*clickhouse.Options) (driver.Conn, error) {
		return nil, errors.New("refused")
	})
	_, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/tasker"})
	if err == nil {
		t.Fatalf("expected open error")
	}
}

func TestInsert_RejectsTableName(t *testing.T) {
	c := &CH{}
	for _, bad := range []string{"", "events; DROP TABLE x", "1events", "a.b.c"} {
		if err := c.Insert(context.Background(), bad, [][]any{{1}}); err == nil {
			t.Fatalf("Insert(%q) accepted", bad)
		}
	}
	// nothing to send is a no-op even without a connection
	if err := c.Insert(context.Background(), "tasker.extraction_events", nil); err != nil {
		t.Fatalf("empty insert: %v", err)
	}
}
