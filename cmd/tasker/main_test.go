package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tasker/internal/core/extract"
	"tasker/internal/platform/testkit"
	offline "tasker/internal/services/offline/domain"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("TASKER_USER", "")
	t.Setenv("TASKER_REMOTE_DSN", "")

	testkit.PinClock(t, &clock, testkit.At(2024, time.January, 10, 10, 0))
	return base
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestExtractJSON(t *testing.T) {
	setupCLI(t)

	out, _, err := runCLI(t, "", "extract", "--json", "--now", "2024-01-10", "Levar", "meu", "pet", "amanhã", "de", "tarde")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var res extract.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := extract.Result{Title: "Levar meu pet", Date: "2024-01-11", Time: "15:00"}
	if res != want {
		t.Fatalf("got %+v, want %+v", res, want)
	}
}

func TestExtractStdinExplain(t *testing.T) {
	setupCLI(t)

	out, _, err := runCLI(t, "Reunião com Ana quinta às 14h\n", "extract", "--explain", "--now", "2024-01-08T09:00:00-03:00")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	testkit.MustContain(t, out, "Título: Reunião com Ana")
	testkit.MustContain(t, out, "Data:   2024-01-11")
	testkit.MustContain(t, out, "Hora:   14:00")
	testkit.MustContain(t, out, "Regra de data:")
}

func TestExtractRejectsEmptyInput(t *testing.T) {
	setupCLI(t)

	if _, _, err := runCLI(t, "  \n", "extract"); err == nil {
		t.Fatal("expected an error for empty stdin")
	}
	if _, _, err := runCLI(t, "", "extract", "--now", "ontem", "x"); err == nil {
		t.Fatal("expected an error for a bad --now")
	}
}

func TestAddListDoneRemove(t *testing.T) {
	setupCLI(t)

	out, _, err := runCLI(t, "", "add", "--json", "Pagar o boleto dia 5 de novembro")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	var rec offline.Record
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode add: %v", err)
	}
	if rec.Title != "Pagar o boleto" || rec.Date != "2024-11-05" || rec.UserID != "local" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Synced {
		t.Fatal("new record must start unsynced")
	}

	if _, _, err := runCLI(t, "", "add", "Levar meu pet amanhã de tarde"); err != nil {
		t.Fatalf("add second: %v", err)
	}

	out, _, err = runCLI(t, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	testkit.MustContain(t, out, "Pagar o boleto")
	testkit.MustContain(t, out, "Levar meu pet")

	out, _, err = runCLI(t, "", "list", "--date", "2024-01-11")
	if err != nil {
		t.Fatalf("list --date: %v", err)
	}
	testkit.MustContain(t, out, "Levar meu pet")
	if strings.Contains(out, "Pagar o boleto") {
		t.Fatalf("date filter leaked another day:\n%s", out)
	}

	prefix := rec.ID.String()[:8]
	out, _, err = runCLI(t, "", "done", prefix)
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	testkit.MustContain(t, out, "marcada como feita")

	out, _, err = runCLI(t, "", "calendar", prefix)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	testkit.MustContain(t, out, "https://calendar.google.com/calendar/render?action=TEMPLATE")

	if _, _, err := runCLI(t, "", "rm", prefix); err != nil {
		t.Fatalf("rm: %v", err)
	}
	out, _, err = runCLI(t, "", "list", "--json")
	if err != nil {
		t.Fatalf("list json: %v", err)
	}
	var recs []offline.Record
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "Levar meu pet" {
		t.Fatalf("expected only the pet task after rm, got %+v", recs)
	}
}

func TestUserFlagScopesTasks(t *testing.T) {
	setupCLI(t)

	if _, _, err := runCLI(t, "", "--user", "ana", "add", "Comprar pão"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, _, err := runCLI(t, "", "--user", "bia", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	testkit.MustContain(t, out, "Nenhuma tarefa")

	out, _, err = runCLI(t, "", "--user", "bia", "list", "--all")
	if err != nil {
		t.Fatalf("list --all: %v", err)
	}
	testkit.MustContain(t, out, "Comprar pão")
}

func TestSyncWithoutRemote(t *testing.T) {
	setupCLI(t)

	_, _, err := runCLI(t, "", "sync")
	if err == nil || !strings.Contains(err.Error(), "remote.dsn") {
		t.Fatalf("expected missing remote.dsn error, got %v", err)
	}
}

func TestEvalCorpus(t *testing.T) {
	base := setupCLI(t)

	path := filepath.Join(base, "corpus.yaml")
	corpus := `now: "2024-01-10T10:00:00-03:00"
cases:
  - name: amanha
    text: "Levar meu pet amanhã de tarde"
    want: {title: "Levar meu pet", date: "2024-01-11", time: "15:00"}
  - name: wrong on purpose
    text: "Comprar leite"
    want: {title: "Comprar pão"}
`
	if err := os.WriteFile(path, []byte(corpus), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	out, _, err := runCLI(t, "", "eval", path)
	if err == nil {
		t.Fatal("expected eval to fail on the wrong case")
	}
	testkit.MustContain(t, out, "1/2 casos passaram")
	testkit.MustContain(t, out, "FALHOU")
}

func TestEvalShippedCorpus(t *testing.T) {
	setupCLI(t)

	out, _, err := runCLI(t, "", "eval", "--failures", filepath.Join("..", "..", "internal", "core", "extract", "testdata", "corpus.yaml"))
	if err != nil {
		t.Fatalf("shipped corpus must pass: %v\n%s", err, out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	base := setupCLI(t)
	path := filepath.Join(base, "custom.toml")

	out, _, err := runCLI(t, "", "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	testkit.MustContain(t, out, path)
	if _, _, err := runCLI(t, "", "config", "init", "--path", path); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	out, _, err = runCLI(t, "", "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	testkit.MustContain(t, out, "Configuration valid")

	out, _, err = runCLI(t, "", "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	testkit.MustContain(t, out, "America/Sao_Paulo")
}

func TestRedactDSN(t *testing.T) {
	got := redactDSN("postgres://app:secret@db:5432/tasks")
	if got != "postgres://app:***@db:5432/tasks" {
		t.Fatalf("got %q", got)
	}
	if got := redactDSN("host=db user=app"); got != "host=db user=app" {
		t.Fatalf("non url dsn changed: %q", got)
	}
}

func TestLexiconAndVersion(t *testing.T) {
	setupCLI(t)

	out, _, err := runCLI(t, "", "lexicon")
	if err != nil {
		t.Fatalf("lexicon: %v", err)
	}
	testkit.MustContain(t, out, "novembro")
	testkit.MustContain(t, out, "quinta")

	out, _, err = runCLI(t, "", "lexicon", "--rules")
	if err != nil {
		t.Fatalf("lexicon --rules: %v", err)
	}
	testkit.MustContain(t, out, "date")
	testkit.MustContain(t, out, "finalize")

	out, _, err = runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	testkit.MustContain(t, out, "tasker")
}
