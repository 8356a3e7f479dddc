package httpkit

import (
	"net/http"
	"strings"

	perr "tasker/internal/platform/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Param returns a route parameter
func Param(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// UUIDParam parses a route parameter as a uuid
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(Param(r, name))
	if err != nil {
		return uuid.Nil, perr.WithField(perr.Validationf("%s must be a uuid", name), name)
	}
	return id, nil
}
