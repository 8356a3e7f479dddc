// Command tasker turns pt-BR sentences into tasks kept in a local store and
// synced to the task server
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tasker/internal/platform/config"
	"tasker/internal/platform/logger"
)

func main() {
	// logs go to stderr so stdout stays clean for --json and mcp
	opts := logger.FromEnv()
	opts.Level = config.New().MayString("LOG_LEVEL", "warn")
	opts.Service = "tasker"
	opts.Writer = os.Stderr
	logger.Init(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "erro:", err)
		}
		os.Exit(1)
	}
}
