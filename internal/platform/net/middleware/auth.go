package middleware

import (
	"net/http"

	perr "tasker/internal/platform/errors"
	"tasker/internal/platform/logger"
	pnet "tasker/internal/platform/net"
	phttp "tasker/internal/platform/net/http"
)

// AuthPort resolves the caller of a request
type AuthPort interface {
	// Parse returns the user id the request acts for or an error
	Parse(r *http.Request) (userID string, err error)
}

// Auth puts the parsed user id on the request context
// a nil port lets every request through anonymously
func Auth(p AuthPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, err := p.Parse(r)
			if err == nil && uid == "" {
				err = perr.Unauthorizedf("no user in credentials")
			}
			if err != nil {
				phttp.RespondError(w, r, err)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
