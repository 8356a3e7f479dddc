// Package module wires extraction analytics into the API using modkit
package module

import (
	"time"

	modkit "tasker/internal/modkit"
	"tasker/internal/modkit/httpkit"
	"tasker/internal/platform/config"
	str "tasker/internal/platform/strings"

	"tasker/internal/services/analytics/domain"
	ahttp "tasker/internal/services/analytics/http"
	arepo "tasker/internal/services/analytics/repo"
	asvc "tasker/internal/services/analytics/service"
	tasks "tasker/internal/services/tasks/domain"
)

// Module implements the analytics API module
type Module struct {
	built modkit.Built
	deps  modkit.Deps
	rec   *asvc.Recorder
	svc   *asvc.Svc
	repo  arepo.Repo
}

// Ports are what analytics offers other modules
type Ports struct {
	Sink    tasks.ExtractionSink
	Summary domain.SummaryPort
}

// FromConfig reads ANALYTICS_* recorder knobs
func FromConfig(cfg config.Conf) asvc.RecorderOptions {
	ac := cfg.Prefix("ANALYTICS_")
	return asvc.RecorderOptions{
		Queue:        ac.MayInt("QUEUE", 4096),
		Batch:        ac.MayInt("BATCH", 256),
		FlushEvery:   ac.MayDuration("FLUSH_EVERY", 5*time.Second),
		FlushTimeout: ac.MayDuration("FLUSH_TIMEOUT", 10*time.Second),
	}
}

// New constructs the analytics module, without deps.CH it records nothing
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return NewWith(deps, FromConfig(deps.Cfg), opts...)
}

// NewWith constructs the module with explicit recorder options
func NewWith(deps modkit.Deps, o asvc.RecorderOptions, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("analytics"),
		modkit.WithPrefix("/analytics"),
	}, opts...)...)

	var r arepo.Repo
	if deps.CH != nil {
		r = arepo.NewCH(deps.CH)
	}
	return &Module{
		built: b,
		deps:  deps,
		repo:  r,
		rec:   asvc.NewRecorder(r, o),
		svc:   asvc.New(r, deps.Now),
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		ahttp.Register(rr, m.svc, m.deps.Now)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.Or(m.built.Name, "analytics") }

// Ports exposes the recorder as the tasks extraction sink
func (m *Module) Ports() any { return Ports{Sink: m.rec, Summary: m.svc} }

// Recorder returns the batching recorder so the caller can run and flush it
func (m *Module) Recorder() *asvc.Recorder { return m.rec }

// Repo returns the ClickHouse repo or nil when analytics is off
func (m *Module) Repo() arepo.Repo { return m.repo }
