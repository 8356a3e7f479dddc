// Package module defines the minimal contract for a modkit module and its port lookups
package module

import (
	phttp "tasker/internal/platform/net/http"
)

// Module is what the API composes: routes plus a bundle of ports for cross wiring
// kept apart from modkit so a module can import both without a cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
