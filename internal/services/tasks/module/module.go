// Package module wires tasks into the API using modkit
package module

import (
	modkit "tasker/internal/modkit"
	"tasker/internal/modkit/httpkit"
	"tasker/internal/modkit/repokit"
	"tasker/internal/modkit/swaggerkit"
	str "tasker/internal/platform/strings"

	"tasker/internal/services/tasks/domain"
	thttp "tasker/internal/services/tasks/http"
	trepo "tasker/internal/services/tasks/repo"
	tsvc "tasker/internal/services/tasks/service"
)

// Module implements the tasks API module
type Module struct {
	built modkit.Built
	auth  *httpkit.Port
	svc   *tsvc.Svc
}

// Ports are the optional ports injected into the module
type Ports struct {
	Sink domain.ExtractionSink
}

// New constructs the tasks module, deps.PG is required
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return NewWith(deps, FromConfig(deps.Cfg), opts...)
}

// NewWith constructs the tasks module with explicit options
func NewWith(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("tasks"),
		modkit.WithPrefix("/tasks"),
	}, opts...)...)

	if deps.PG == nil {
		panic("tasks module requires a Postgres TxRunner")
	}

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}

	db := repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(o.StatementTimeout))
	svcOpts := []tsvc.Option{
		tsvc.WithClock(deps.Now, deps.Location()),
		tsvc.WithCalendar(o.CalendarZone, o.EventDuration),
		tsvc.WithSource(domain.SourceAPI),
	}
	if injected.Sink != nil {
		svcOpts = append(svcOpts, tsvc.WithSink(injected.Sink))
	}

	m := &Module{built: b, svc: tsvc.New(db, trepo.NewPG(), svcOpts...)}
	if o.JWTSecret != "" {
		m.auth = httpkit.JWTPort([]byte(o.JWTSecret))
		swaggerkit.Register(swaggerkit.BearerSecurity)
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		httpkit.Protected(rr, m.auth, func(pr httpkit.Router) {
			thttp.Register(pr, m.svc, m.svc)
		})
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.Or(m.built.Name, "tasks") }

// Ports exposes the service for cross-module use, the sync worker among others
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }

// Service returns the underlying service
func (m *Module) Service() *tsvc.Svc { return m.svc }
