// @title         tasker API
// @version       1.0
// @description   Turns pt-BR task utterances into dated tasks

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tasker/internal/platform/config"
	"tasker/internal/platform/logger"
	phttp "tasker/internal/platform/net/http"
	"tasker/internal/platform/store"

	"tasker/internal/services/api"
	trepo "tasker/internal/services/tasks/repo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*

	// bring up logging early
	l := logger.Get()

	// postgres is required, clickhouse only feeds analytics
	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(ctx,
		store.Config{
			AppName: "tasker-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled: chCfg.MayBool("ENABLED", chURL != ""),
				URL:     chURL,
				Role:    "api",
			},
		},
		store.WithLogger(l),
	)
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := trepo.Migrate(ctx, st.PG); err != nil {
		l.Fatal().Err(err).Msg("tasks migration failed")
	}

	srv := phttp.NewServer(":" + apiCfg.MayString("PORT", "8080"))
	mounted := api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	if repo := mounted.Analytics.Repo(); repo != nil {
		if err := repo.Migrate(ctx); err != nil {
			l.Fatal().Err(err).Msg("analytics migration failed")
		}
	}

	// the recorder drains its queue once ctx is done
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mounted.Recorder.Run(ctx)
	}()

	l.Info().Str("addr", srv.Addr()).Bool("analytics", mounted.Recorder.Enabled()).Msg("tasker-api starting")
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
	stop()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(15 * time.Second):
		l.Warn().Msg("analytics flush timed out")
	}
}
