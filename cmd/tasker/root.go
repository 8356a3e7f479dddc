package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
)

// execute runs one command line and always releases what it opened
func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cc := newCommandContext(&globalFlags{})
	cmd := newRootCommand(cc)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, cc.close(context.WithoutCancel(ctx)))
}

func newRootCommand(ctx *commandContext) *cobra.Command {
	flags := ctx.flags
	rootCmd := &cobra.Command{
		Use:           "tasker",
		Short:         "Extrai título, data e hora de frases e guarda como tarefas",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.db, "db", "", "Local task database, overrides local.db")
	pf.StringVarP(&flags.user, "user", "u", "", "Owner of the tasks, overrides user.id")

	rootCmd.AddCommand(newExtractCommand(ctx))
	rootCmd.AddCommand(newEvalCommand())
	rootCmd.AddCommand(newLexiconCommand())
	rootCmd.AddCommand(newAddCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newDoneCommand(ctx))
	rootCmd.AddCommand(newRemoveCommand(ctx))
	rootCmd.AddCommand(newCalendarCommand(ctx))
	rootCmd.AddCommand(newSyncCommand(ctx))
	rootCmd.AddCommand(newMCPCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
