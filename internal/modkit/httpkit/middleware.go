package httpkit

import (
	"net/http"
	"time"

	"tasker/internal/platform/net/middleware"
)

// slowRequest is when the access log starts warning
const slowRequest = 750 * time.Millisecond

// CommonStack returns the baseline middleware slice for the versioned API
func CommonStack() []func(http.Handler) http.Handler {
	return append(middleware.Defaults(slowRequest), middleware.CORS(middleware.CORSOptions{}))
}

// Auth wires a bearer auth port into the platform auth middleware
// a nil port lets every request through
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p)
}
