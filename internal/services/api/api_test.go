package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tasker/internal/modkit/module"
	phttp "tasker/internal/platform/net/http"
	"tasker/internal/platform/store"
	"tasker/internal/services/tasks/domain"
	"tasker/internal/services/tasks/repo/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mount(t *testing.T) (http.Handler, Mounted) {
	t.Helper()
	r := phttp.NewServer("").Router()
	m := Mount(r, Options{
		Store: &store.Store{PG: &repotest.Tx{}},
		Now:   func() time.Time { return time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC) },
	})
	return r.Mux(), m
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMount_Routes(t *testing.T) {
	h, _ := mount(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/ready", "", http.StatusOK},
		{http.MethodPost, "/api/v1/tasks/parse", `{"text":"Levar meu pet amanhã de tarde"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/analytics/summary", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/docs/doc.json", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		rec := do(h, tc.method, tc.path, tc.body)
		assert.Equal(t, tc.want, rec.Code, "%s %s: %s", tc.method, tc.path, rec.Body.String())
	}
}

func TestMount_Registry(t *testing.T) {
	_, m := mount(t)
	// meta has no ports to share
	assert.Equal(t, []string{"analytics", "tasks"}, m.Registry.Names())

	svc, ok := module.Lookup[domain.ServicePort](m.Registry, "tasks")
	require.True(t, ok)
	assert.Same(t, m.Tasks.Service(), svc)

	require.NotNil(t, m.Recorder)
	assert.False(t, m.Recorder.Enabled(), "no clickhouse, no recording")
}
