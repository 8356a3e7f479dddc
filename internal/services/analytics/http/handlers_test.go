package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "tasker/internal/platform/net/http"
	"tasker/internal/services/analytics/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

type fakeSummary struct{ since time.Time }

func (f *fakeSummary) Summary(_ context.Context, since time.Time) (domain.Summary, error) {
	f.since = since
	return domain.Summary{Since: since, Total: 7}, nil
}

func TestParseSince(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"", now.Add(-24 * time.Hour), true},
		{"2024-01-09T00:00:00Z", time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-01", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"90m", now.Add(-90 * time.Minute), true},
		{"-1h", time.Time{}, false},
		{"ontem", time.Time{}, false},
	}
	for _, tc := range tests {
		got, err := parseSince(tc.raw, now)
		if (err == nil) != tc.ok || !got.Equal(tc.want) {
			t.Fatalf("parseSince(%q) = %v, %v", tc.raw, got, err)
		}
	}
}

func TestSummaryRoute(t *testing.T) {
	f := &fakeSummary{}
	r := phttp.NewServer("").Router()
	r.Route("/analytics", func(rr phttp.Router) { Register(rr, f, func() time.Time { return now }) })

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/analytics/summary?since=1h", nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, f.since.Equal(now.Add(-time.Hour)))

	var env struct {
		Data domain.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, uint64(7), env.Data.Total)

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/analytics/summary?since=ontem", nil))
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}
