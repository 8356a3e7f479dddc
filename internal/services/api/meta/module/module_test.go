package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	modkit "tasker/internal/modkit"
	phttp "tasker/internal/platform/net/http"
	metahttp "tasker/internal/services/api/meta/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_ReadySkipsMissingBackends(t *testing.T) {
	m := New(modkit.Deps{})
	assert.Equal(t, "meta", m.Name())
	assert.Nil(t, m.Ports())

	r := phttp.NewServer("").Router()
	m.MountRoutes(r)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meta/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data metahttp.ReadyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "ok", env.Data.Status)
	require.Len(t, env.Data.Checks, 3)
	for _, c := range env.Data.Checks {
		assert.Equal(t, "skipped", c.Status, c.Name)
	}
}

func TestNewService_Name(t *testing.T) {
	m := NewService("", modkit.Deps{})
	assert.Equal(t, DefaultService, m.deps.ServiceName)
	assert.Len(t, m.deps.Checks, 3)
}
