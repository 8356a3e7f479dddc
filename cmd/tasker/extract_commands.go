package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tasker/internal/core/extract"
	"tasker/internal/core/lexicon"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		now     string
		asJSON  bool
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "extract [texto...]",
		Short: "Mostra título, data e hora extraídos de uma frase, sem salvar",
		Example: `  tasker extract "levar meu pet amanhã de tarde"
  echo "reunião quinta às 14h" | tasker extract --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			text, err := utterance(cmd, args)
			if err != nil {
				return err
			}
			ref, err := parseNow(now, cfg.Location())
			if err != nil {
				return err
			}

			res, tr := extract.Default().ExtractTrace(text, ref)
			if asJSON {
				if explain {
					return writeJSON(cmd, struct {
						extract.Result
						Trace extract.Trace `json:"trace"`
					}{res, tr})
				}
				return writeJSON(cmd, res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Título: %s\n", res.Title)
			fmt.Fprintf(out, "Data:   %s\n", orDash(res.Date))
			fmt.Fprintf(out, "Hora:   %s\n", orDash(res.Time))
			if explain {
				printTrace(out, tr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&now, "now", "", "Reference instant (RFC3339 or YYYY-MM-DD), defaults to the current time")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show which rules fired")
	return cmd
}

func printTrace(out io.Writer, tr extract.Trace) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Normalizado: %s\n", tr.Normalized)
	if tr.Date != nil {
		fmt.Fprintf(out, "Regra de data: %s (%q → %s)\n", tr.Date.Rule, tr.Date.Text, tr.Date.Value)
	}
	if tr.Time != nil {
		kind := "explícita"
		if tr.Inferred {
			kind = "inferida"
		}
		fmt.Fprintf(out, "Regra de hora: %s, %s (%q → %s)\n", tr.Time.Rule, kind, tr.Time.Text, tr.Time.Value)
	}
	fmt.Fprintf(out, "Resíduo: %s\n", tr.Residual)
	fmt.Fprintf(out, "Limpo:   %s\n", tr.Cleaned)
	if len(tr.Steps) > 0 {
		rows := make([][]string, 0, len(tr.Steps))
		for _, s := range tr.Steps {
			rows = append(rows, []string{s.Stage, s.Rule, s.Before, s.After})
		}
		fmt.Fprintln(out, renderTable([]string{"Etapa", "Regra", "Antes", "Depois"}, rows, nil))
	}
	if tr.Fallback != "" {
		fmt.Fprintf(out, "Fallback: %s\n", tr.Fallback)
	}
}

func newEvalCommand() *cobra.Command {
	var failuresOnly bool

	cmd := &cobra.Command{
		Use:   "eval [corpus.yaml]",
		Short: "Run a YAML regression corpus through the extractor",
		Long:  "Run a YAML regression corpus through the extractor. Reads stdin when no file is given; exits non-zero when any case fails.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open corpus: %w", err)
				}
				defer f.Close()
				in = f
			}
			corpus, err := extract.LoadCorpus(in)
			if err != nil {
				return err
			}

			outcomes := extract.Default().Evaluate(corpus)
			rows := make([][]string, 0, len(outcomes))
			failed := 0
			for _, o := range outcomes {
				status := "ok"
				if !o.Pass() {
					status = "FALHOU"
					failed++
				} else if failuresOnly {
					continue
				}
				got := fmt.Sprintf("%s | %s | %s", o.Got.Title, orDash(o.Got.Date), orDash(o.Got.Time))
				want := fmt.Sprintf("%s | %s | %s", o.Case.Want.Title, orDash(o.Case.Want.Date), orDash(o.Case.Want.Time))
				if o.Err != nil {
					got = o.Err.Error()
				}
				rows = append(rows, []string{status, o.Case.Name, want, got})
			}

			out := cmd.OutOrStdout()
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable([]string{"Status", "Caso", "Esperado", "Obtido"}, rows, nil))
			}
			fmt.Fprintf(out, "%d/%d casos passaram\n", len(outcomes)-failed, len(outcomes))
			if failed > 0 {
				return fmt.Errorf("%d caso(s) falharam", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failuresOnly, "failures", false, "Only list failing cases")
	return cmd
}

func newLexiconCommand() *cobra.Command {
	var rules bool

	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Print the word tables the extractor matches against",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if rules {
				printRules(out, extract.Default().Rules())
				return nil
			}

			lx := lexicon.Default()
			fmt.Fprintf(out, "Léxico v%d (%s)\n", lx.Version(), lx.Locale())

			var rows [][]string
			for _, w := range lx.WeekdayNames() {
				d, _ := lx.Weekday(w)
				rows = append(rows, []string{"dia da semana", w, strconv.Itoa(int(d))})
			}
			for _, w := range lx.MonthNames() {
				m, _ := lx.Month(w)
				rows = append(rows, []string{"mês", w, strconv.Itoa(int(m))})
			}
			numbers := []struct {
				kind  string
				words []string
				get   func(string) (int, bool)
			}{
				{"unidade", lx.UnitWords(), lx.Unit},
				{"dez a dezenove", lx.TeenWords(), lx.Teen},
				{"dezena", lx.TensWords(), lx.Tens},
				{"minutos", lx.MinuteIdioms(), lx.MinuteIdiom},
			}
			for _, n := range numbers {
				for _, w := range n.words {
					v, _ := n.get(w)
					rows = append(rows, []string{n.kind, w, strconv.Itoa(v)})
				}
			}
			fmt.Fprintln(out, renderTable([]string{"Tabela", "Palavra", "Valor"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))

			sets := [][]string{
				{"temporais", strings.Join(lx.TemporalWords(), ", ")},
				{"conectores", strings.Join(lx.Connectors(), ", ")},
				{"preenchimento inicial", strings.Join(lx.LeadingFillers(), ", ")},
				{"preenchimento final", strings.Join(lx.TrailingFillers(), ", ")},
				{"intenções", strings.Join(lx.Intentions(), ", ")},
				{"verbos genéricos", strings.Join(lx.GenericVerbs(), ", ")},
				{"verbos de comando", strings.Join(lx.CommandVerbs(), ", ")},
				{"substantivos de comando", strings.Join(lx.CommandNouns(), ", ")},
			}
			fmt.Fprintln(out, renderTable([]string{"Conjunto", "Palavras"}, sets, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&rules, "rules", false, "List the rules of every stage in priority order instead")
	return cmd
}

func printRules(out io.Writer, stages map[string][]string) {
	order := []string{"date", "clock", "context", "residual", "clean", "repair", "finalize"}
	seen := make(map[string]bool, len(order))
	for _, s := range order {
		seen[s] = true
	}
	var extra []string
	for s := range stages {
		if !seen[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)

	var rows [][]string
	for _, stage := range append(order, extra...) {
		for i, name := range stages[stage] {
			rows = append(rows, []string{stage, strconv.Itoa(i + 1), name})
		}
	}
	fmt.Fprintln(out, renderTable([]string{"Etapa", "Prioridade", "Regra"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
}
