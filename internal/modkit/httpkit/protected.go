package httpkit

import (
	"tasker/internal/platform/net/middleware"
)

// Protected groups routes under bearer auth
// a nil port mounts the routes without auth
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		if p != nil {
			gr.Use(Auth(p))
		}
		fn(gr)
	})
}
