package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tasker/internal/platform/config"
	"tasker/internal/platform/store"

	arepo "tasker/internal/services/analytics/repo"
	asvc "tasker/internal/services/analytics/service"
	olrepo "tasker/internal/services/offline/repo"
	olsvc "tasker/internal/services/offline/service"
	tasks "tasker/internal/services/tasks/domain"
	trepo "tasker/internal/services/tasks/repo"
	tsvc "tasker/internal/services/tasks/service"
)

// clock is the reference instant of every command, tests pin it
var clock = time.Now

type globalFlags struct {
	config string
	db     string
	user   string
}

// commandContext opens what a command needs once and closes it after the run
type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     config.File
	configErr  error

	local    *olsvc.Svc
	localDB  *store.Store
	recorder *asvc.Recorder
	remoteDB *store.Store
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (config.File, error) {
	c.configOnce.Do(func() {
		cfg, _, err := config.LoadFile(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if u := strings.TrimSpace(c.flags.user); u != "" {
			cfg.User.ID = u
		}
		if db := strings.TrimSpace(c.flags.db); db != "" {
			if cfg.Local.DB, err = config.ExpandPath(db); err != nil {
				c.configErr = err
				return
			}
			cfg.Local.Lock = filepath.Join(filepath.Dir(cfg.Local.DB), "sync.lock")
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// offline opens the local store once, source tags the recorded extractions
func (c *commandContext) offline(ctx context.Context, source string) (*olsvc.Svc, error) {
	if c.local != nil {
		return c.local, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Local.DB), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.Open(ctx, store.Config{
		AppName: "tasker",
		Lite:    store.LiteConfig{Enabled: true, Path: cfg.Local.DB, BusyTimeout: 5 * time.Second},
		CH:      analyticsConfig(cfg),
	})
	if err != nil {
		return nil, err
	}
	c.localDB = st
	if err := olrepo.Migrate(ctx, st.Lite); err != nil {
		return nil, err
	}

	opts := []olsvc.Option{
		olsvc.WithClock(clock, cfg.Location()),
		olsvc.WithSource(source),
		olsvc.WithCalendar(cfg.Calendar.Zone, time.Duration(cfg.Calendar.DurationMinutes)*time.Minute),
	}
	if st.CH != nil {
		r := arepo.NewCH(st.CH)
		if err := r.Migrate(ctx); err != nil {
			return nil, err
		}
		c.recorder = asvc.NewRecorder(r, asvc.RecorderOptions{})
		opts = append(opts, olsvc.WithSink(c.recorder))
	}
	c.local = olsvc.New(st.Lite, nil, opts...)
	return c.local, nil
}

// remote opens the Postgres task store named by remote.dsn
func (c *commandContext) remote(ctx context.Context) (*tsvc.Svc, error) {
	st, err := c.remoteStore(ctx)
	if err != nil {
		return nil, err
	}
	cfg, _ := c.ensureConfig()
	return tsvc.New(st.PG, trepo.NewPG(),
		tsvc.WithClock(clock, cfg.Location()),
		tsvc.WithSource(tasks.SourceCLI),
	), nil
}

func (c *commandContext) remoteStore(ctx context.Context) (*store.Store, error) {
	if c.remoteDB != nil {
		return c.remoteDB, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Remote.DSN == "" {
		return nil, errors.New("remote.dsn não configurado, defina em config.toml ou TASKER_REMOTE_DSN")
	}
	st, err := store.Open(ctx, store.Config{
		AppName: "tasker",
		PG:      store.PGConfig{Enabled: true, URL: cfg.Remote.DSN, MaxConns: 2, ConnectRetries: 2},
		CH:      analyticsConfig(cfg),
	})
	if err != nil {
		return nil, err
	}
	c.remoteDB = st
	if err := trepo.Migrate(ctx, st.PG); err != nil {
		return nil, err
	}
	return st, nil
}

func (c *commandContext) close(ctx context.Context) error {
	if c.recorder != nil {
		fctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		c.recorder.Flush(fctx)
		cancel()
	}
	var errs []error
	for _, st := range []*store.Store{c.localDB, c.remoteDB} {
		if err := st.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.local, c.localDB, c.remoteDB, c.recorder = nil, nil, nil, nil
	return errors.Join(errs...)
}

func analyticsConfig(cfg config.File) store.CHConfig {
	a := cfg.Analytics
	if !a.Enabled {
		return store.CHConfig{}
	}
	u := url.URL{Scheme: "clickhouse", Host: a.Addr, Path: "/" + a.Database}
	if a.Username != "" {
		u.User = url.UserPassword(a.Username, a.Password)
	}
	return store.CHConfig{Enabled: true, URL: u.String(), Role: "cli"}
}
