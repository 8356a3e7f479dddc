package http

import (
	stdhttp "net/http"
	"strings"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler serves pprof below prefix, "/debug" gives /debug/pprof/
// tasker-api turns it on with CORE_API_PROFILER, it stays off otherwise
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = "/debug"
	}

	pprof := stdhttp.StripPrefix(prefix, mw.Profiler())
	serve := func(w stdhttp.ResponseWriter, req *stdhttp.Request) { pprof.ServeHTTP(w, req) }
	r.Get(prefix, serve)
	r.Get(prefix+"/*", serve)
}
