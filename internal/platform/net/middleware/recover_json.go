package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "tasker/internal/platform/errors"
	"tasker/internal/platform/logger"
	pnet "tasker/internal/platform/net"
	phttp "tasker/internal/platform/net/http"
)

// RecoverJSON converts panics into a JSON 500 and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			// let net/http abort the connection as it normally would
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID := pnet.RequestID(r.Context()); reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			phttp.RespondError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
