// Package api provides the HTTP API for the application
package api

import (
	"time"

	"tasker/internal/platform/config"
	"tasker/internal/platform/logger"
	"tasker/internal/platform/net/middleware"
	phttp "tasker/internal/platform/net/http"
	"tasker/internal/platform/store"

	"tasker/internal/modkit"
	"tasker/internal/modkit/httpkit"
	"tasker/internal/modkit/module"
	"tasker/internal/modkit/swaggerkit"

	analyticsmod "tasker/internal/services/analytics/module"
	asvc "tasker/internal/services/analytics/service"
	metamod "tasker/internal/services/api/meta/module"
	tasksmod "tasker/internal/services/tasks/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Now overrides the clock of every module, tests pin it
	Now func() time.Time
}

// Mounted is what the caller has to run or inspect after Mount
type Mounted struct {
	Registry  *module.Registry
	Recorder  *asvc.Recorder
	Analytics *analyticsmod.Module
	Tasks     *tasksmod.Module
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) Mounted {
	deps := modkit.FromStore(opt.Store, opt.Config)
	deps.Now = opt.Now
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	r.Use(middleware.Heartbeat("/health"))

	// analytics first, tasks record into its sink
	analytics := analyticsmod.NewWith(deps, analyticsmod.FromConfig(deps.Cfg))
	sink := module.MustPortsOf[analyticsmod.Ports](analytics).Sink

	tasks := tasksmod.NewWith(deps, tasksmod.FromConfig(deps.Cfg),
		modkit.WithPorts(tasksmod.Ports{Sink: sink}),
	)

	mods := []module.Module{
		metamod.New(deps),
		tasks,
		analytics,
	}
	reg := module.NewRegistry()
	reg.Add(mods...)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	// Swagger + profiler
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	return Mounted{Registry: reg, Recorder: analytics.Recorder(), Analytics: analytics, Tasks: tasks}
}
