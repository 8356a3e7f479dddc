package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	offline "tasker/internal/services/offline/domain"
	tasks "tasker/internal/services/tasks/domain"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		now    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "add <texto...>",
		Short: "Cria uma tarefa a partir de uma frase",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := utterance(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ref, err := parseNow(now, cfg.Location())
			if err != nil {
				return err
			}
			svc, err := ctx.offline(cmd.Context(), tasks.SourceCLI)
			if err != nil {
				return err
			}
			rec, err := svc.AddText(cmd.Context(), cfg.User.ID, text, ref)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, rec)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tarefa criada %s\n", shortID(rec))
			fmt.Fprintf(out, "  %s, %s %s\n", rec.Title, rec.Date, rec.Time)
			return nil
		},
	}

	cmd.Flags().StringVar(&now, "now", "", "Reference instant (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored task as JSON")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		date   string
		today  bool
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Lista as tarefas locais",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.offline(cmd.Context(), tasks.SourceCLI)
			if err != nil {
				return err
			}
			if today {
				date = svc.Now().Format("2006-01-02")
			}
			recs, err := svc.List(cmd.Context(), offline.Filter{User: cfg.User.ID, Date: date, All: all})
			if err != nil {
				return err
			}
			sortRecords(recs)

			if asJSON {
				if recs == nil {
					recs = []offline.Record{}
				}
				return writeJSON(cmd, recs)
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "Nenhuma tarefa")
				return nil
			}
			rows := make([][]string, 0, len(recs))
			for _, r := range recs {
				rows = append(rows, []string{shortID(r), r.Date, orDash(r.Time), r.Title, yesNo(r.Done), yesNo(r.Synced)})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Data", "Hora", "Título", "Feita", "Sincronizada"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only tasks of this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&today, "today", false, "Only tasks of today")
	cmd.Flags().BoolVar(&all, "all", false, "Include tasks of every user")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tasks as JSON")
	cmd.MarkFlagsMutuallyExclusive("date", "today")
	return cmd
}

func newDoneCommand(ctx *commandContext) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Marca uma tarefa como feita",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.offline(cmd.Context(), tasks.SourceCLI)
			if err != nil {
				return err
			}
			id, err := svc.Resolve(cmd.Context(), cfg.User.ID, args[0])
			if err != nil {
				return err
			}
			rec, err := svc.SetDone(cmd.Context(), id, !undo)
			if err != nil {
				return err
			}
			state := "feita"
			if undo {
				state = "pendente"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s marcada como %s\n", rec.Title, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task as not done")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Exclui uma tarefa (removida do servidor no próximo sync)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.offline(cmd.Context(), tasks.SourceCLI)
			if err != nil {
				return err
			}
			id, err := svc.Resolve(cmd.Context(), cfg.User.ID, args[0])
			if err != nil {
				return err
			}
			if err := svc.MarkDeleted(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tarefa excluída")
			return nil
		},
	}
}

func newCalendarCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar <id>",
		Short: "Gera o link do Google Agenda de uma tarefa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.offline(cmd.Context(), tasks.SourceCLI)
			if err != nil {
				return err
			}
			id, err := svc.Resolve(cmd.Context(), cfg.User.ID, args[0])
			if err != nil {
				return err
			}
			link, err := svc.CalendarLink(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}

func shortID(r offline.Record) string { return r.ID.String()[:8] }

// sortRecords orders by date, then time with untimed tasks last, then title
func sortRecords(recs []offline.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if (a.Time == "") != (b.Time == "") {
			return b.Time == ""
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.Title < b.Title
	})
}
