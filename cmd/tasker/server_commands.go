package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"tasker/internal/core/version"
	"tasker/internal/platform/config"
	"tasker/internal/platform/logger"
	phttp "tasker/internal/platform/net/http"
	"tasker/internal/services/api"
	"tasker/internal/services/mcp"
	"tasker/internal/services/syncer"
	tasks "tasker/internal/services/tasks/domain"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Envia as alterações locais para o servidor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			local, err := ctx.offline(cmd.Context(), tasks.SourceCLI)
			if err != nil {
				return err
			}
			remote, err := ctx.remote(cmd.Context())
			if err != nil {
				return err
			}

			rep, err := syncer.New(local, remote, syncer.Options{
				LockPath: cfg.Local.Lock,
				User:     cfg.User.ID,
			}).Run(cmd.Context())
			if errors.Is(err, syncer.ErrBusy) {
				return fmt.Errorf("outra sincronização está em andamento")
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, rep)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rep.Message())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the sync report as JSON")
	return cmd
}

func newMCPCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the extractor and the local tasks as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			local, err := ctx.offline(cmd.Context(), tasks.SourceMCP)
			if err != nil {
				return err
			}
			s := mcp.NewServer(mcp.Config{
				Tasks:   local,
				User:    cfg.User.ID,
				Version: version.Info("tasker").Version,
			})
			err = mcp.Serve(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		addr    string
		swagger bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the task HTTP API against remote.dsn",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := ctx.remoteStore(cmd.Context())
			if err != nil {
				return err
			}
			l := logger.Named("serve")

			srv := phttp.NewServer(addr)
			mounted := api.Mount(srv.Router(), api.Options{
				Config:        config.New(),
				Store:         st,
				Logger:        l,
				EnableSwagger: swagger,
			})
			if repo := mounted.Analytics.Repo(); repo != nil {
				if err := repo.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("analytics migration: %w", err)
				}
			}

			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				mounted.Recorder.Run(runCtx)
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "Servindo em %s\n", srv.Addr())
			err = srv.Run(runCtx)
			cancel()
			wg.Wait()
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&swagger, "swagger", true, "Serve the Swagger UI under /swagger")
	return cmd
}

func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Info("tasker")
			if asJSON {
				return writeJSON(cmd, info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
