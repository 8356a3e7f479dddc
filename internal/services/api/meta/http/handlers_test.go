package http

import (
	stdctx "context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tasker/internal/core/version"
	phttp "tasker/internal/platform/net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(stdctx.Context) error { return p.err }

var started = time.Date(2024, time.January, 10, 13, 0, 0, 0, time.UTC)

func get(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	r := phttp.NewServer("").Router()
	Register(r, d)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func deps(checks ...Check) Deps {
	return Deps{
		ServiceName: "tasker-api",
		StartedAt:   started,
		Now:         func() time.Time { return started.Add(5 * time.Minute) },
		Checks:      checks,
	}
}

func TestHealthAndService(t *testing.T) {
	var h HealthResponse
	get(t, deps(), "/health", &h)
	assert.True(t, h.OK)
	assert.Equal(t, "2024-01-10T13:05:00Z", h.Now)

	var s ServiceResponse
	get(t, deps(), "/service", &s)
	assert.Equal(t, int64(300), s.Uptime)
	assert.Equal(t, "tasker-api", s.Name)
}

func TestVersion(t *testing.T) {
	var v version.BuildInfo
	get(t, deps(), "/version", &v)
	assert.Equal(t, "tasker-api", v.Service)
	assert.Positive(t, v.Lexicon)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		checks []Check
		want   string
		states []string
	}{
		{"all ok", []Check{{"pg", pinger{}}, {"ch", pinger{}}}, "ok", []string{"ok", "ok"}},
		{"optional skipped", []Check{{"pg", pinger{}}, {"ch", nil}}, "ok", []string{"ok", "skipped"}},
		{"cannot ping", []Check{{"pg", pinger{}}, {"lite", struct{}{}}}, "degraded", []string{"ok", "unknown"}},
		{"down", []Check{{"pg", pinger{err: errors.New("refused")}}, {"lite", struct{}{}}}, "fail", []string{"fail", "unknown"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got ReadyResponse
			get(t, deps(tc.checks...), "/ready", &got)
			assert.Equal(t, tc.want, got.Status)
			states := make([]string, 0, len(got.Checks))
			for _, c := range got.Checks {
				states = append(states, c.Status)
			}
			assert.Equal(t, tc.states, states)
		})
	}
}
