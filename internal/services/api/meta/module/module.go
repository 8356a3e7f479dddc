// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "tasker/internal/modkit"
	"tasker/internal/modkit/httpkit"
	str "tasker/internal/platform/strings"

	metahttp "tasker/internal/services/api/meta/http"
)

// DefaultService names the binary in health and version payloads
const DefaultService = "tasker-api"

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
	deps  metahttp.Deps
}

// New constructs a meta module, every store backend in deps becomes a ready check
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return NewService(DefaultService, deps, opts...)
}

// NewService is New with an explicit service name
func NewService(service string, deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Module{
		built: b,
		deps: metahttp.Deps{
			ServiceName: str.Or(service, DefaultService),
			StartedAt:   now(),
			Now:         now,
			Checks: []metahttp.Check{
				{Name: "pg", Target: deps.PG},
				{Name: "ch", Target: deps.CH},
				{Name: "lite", Target: deps.Lite},
			},
		},
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, m.deps)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.Or(m.built.Name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
