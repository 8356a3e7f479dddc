package httpkit

import (
	"net/http"
	"strings"

	perr "tasker/internal/platform/errors"
	pnet "tasker/internal/platform/net"
)

// AnonymousUser owns tasks created while auth is disabled
const AnonymousUser = "local"

// User returns the authenticated user id from the request context
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return uid, nil
}

// UserOr returns the authenticated user id or AnonymousUser
// for routes mounted without an auth port
func UserOr(r *http.Request) string {
	if uid := pnet.UserID(r.Context()); uid != "" {
		return uid
	}
	return AnonymousUser
}

// JWT returns the raw bearer token from the Authorization header
// the Bearer prefix is matched case insensitively
func JWT(r *http.Request) (string, error) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}
