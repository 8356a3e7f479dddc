package repo

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"tasker/internal/platform/store"
	"tasker/internal/services/analytics/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.data) }
func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(row) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}
func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

type fakeCH struct {
	table   string
	rows    [][]any
	execs   []string
	queries []string
	results map[string][][]any // keyed by a fragment of the query
	err     error
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table = table
	f.rows = append(f.rows, rows...)
	return f.err
}

func (f *fakeCH) Query(_ context.Context, q string, _ ...any) (store.Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, q)
	for frag, data := range f.results {
		if strings.Contains(q, frag) {
			return &fakeRows{data: data}, nil
		}
	}
	return &fakeRows{}, nil
}

func (f *fakeCH) Exec(_ context.Context, q string, _ ...any) error {
	f.execs = append(f.execs, q)
	return f.err
}

func (f *fakeCH) Close() error { return nil }

func TestNewCH_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewCH(nil) })
}

func TestMigrate(t *testing.T) {
	f := &fakeCH{}
	require.NoError(t, NewCH(f).Migrate(context.Background()))
	require.Len(t, f.execs, 1)
	assert.Contains(t, f.execs[0], "CREATE TABLE IF NOT EXISTS extraction_events")

	f.err = errors.New("boom")
	assert.ErrorContains(t, NewCH(f).Migrate(context.Background()), "analytics schema step 0")
}

func TestInsert_ColumnOrder(t *testing.T) {
	f := &fakeCH{}
	r := NewCH(f)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, nil))
	assert.Empty(t, f.table, "empty batch never reaches clickhouse")

	ev := domain.Event{
		ID: uuid.New(), At: time.Unix(0, 0).UTC(), UserID: "u1", Source: "api",
		HasDate: true, DateRule: "amanha", TitleLen: 13, Lexicon: 1,
	}
	require.NoError(t, r.Insert(ctx, []domain.Event{ev}))
	assert.Equal(t, Table, f.table)
	require.Len(t, f.rows, 1)
	assert.Equal(t, []any{ev.ID, ev.At, "u1", "api", true, false, "amanha", "", uint16(13), uint16(1), false, ""}, f.rows[0])
}

func TestSummary(t *testing.T) {
	f := &fakeCH{results: map[string][][]any{
		"ifNotFinite":       {{uint64(4), uint64(3), uint64(2), uint64(1), uint64(0), 12.5}},
		"matched_date_rule": {{"amanha", uint64(2)}, {"weekday", uint64(1)}},
		"matched_time_rule": {{"tarde", uint64(2)}},
		"GROUP BY source":   {{"api", uint64(3)}, {"cli", uint64(1)}},
	}}
	since := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	got, err := NewCH(f).Summary(context.Background(), since)
	require.NoError(t, err)

	assert.Equal(t, uint64(4), got.Total)
	assert.Equal(t, uint64(3), got.WithDate)
	assert.InDelta(t, 0.75, got.DateRate, 1e-9)
	assert.InDelta(t, 0.5, got.TimeRate, 1e-9)
	assert.InDelta(t, 12.5, got.AvgTitle, 1e-9)
	assert.Equal(t, []domain.RuleCount{{Rule: "amanha", Count: 2}, {Rule: "weekday", Count: 1}}, got.DateRules)
	assert.Equal(t, []domain.RuleCount{{Rule: "tarde", Count: 2}}, got.TimeRules)
	assert.Equal(t, []domain.SourceCount{{Source: "api", Count: 3}, {Source: "cli", Count: 1}}, got.Sources)
	assert.Len(t, f.queries, 4)
}

func TestSummary_QueryError(t *testing.T) {
	f := &fakeCH{err: errors.New("down")}
	_, err := NewCH(f).Summary(context.Background(), time.Now())
	assert.ErrorContains(t, err, "analytics summary")
}
