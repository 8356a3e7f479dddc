package logger

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	kit "tasker/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]string{
		"trace":   "trace",
		"DEBUG":   "debug",
		" info ":  "info",
		"warning": "warn",
		"error":   "error",
		"fatal":   "fatal",
		"panic":   "panic",
		"":        "debug",
		"loud":    "debug",
	} {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	if got := resolveFormat(FormatAuto, &buf); got != FormatJSON {
		t.Fatalf("auto on a buffer = %q, want json", got)
	}
	if got := resolveFormat(FormatConsole, &buf); got != FormatConsole {
		t.Fatalf("explicit console = %q", got)
	}

	// a regular file is never a terminal
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got := resolveFormat("", f); got != FormatJSON {
		t.Fatalf("auto on a file = %q, want json", got)
	}
}

func TestInit_ChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "info",
		Format:       FormatConsole,
		Service:      "tasker-api",
		Writer:       &buf,
		WithCaller:   true,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	one := &zerolog.BasicSampler{N: 1}
	root := Get().Sample(one)
	root.Info().Msg("boot")

	named := Named("tasks").Sample(one)
	named.Info().Msg("task created")

	ctx := WithRequest(context.Background(), "req-42", "user-7")
	scoped := C(ctx).Sample(one)
	scoped.Info().Msg("parsed")

	bare := C(context.Background()).Sample(one)
	bare.Info().Msg("no ids")

	out := buf.String()
	for _, want := range []string{"boot", "task created", "tasks", "req-42", "user_id=", "user-7", "build=", "tasker-api"} {
		kit.MustContain(t, out, want)
	}
	if strings.Contains(out, "tenant") {
		t.Fatalf("unexpected tenant field:\n%s", out)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "tasker")
	t.Setenv("LOG_CALLER", "true")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != FormatJSON || opt.Service != "tasker" || !opt.WithCaller {
		t.Fatalf("FromEnv = %+v", opt)
	}

	t.Setenv("LOG_FORMAT", "")
	if got := FromEnv().Format; got != FormatAuto {
		t.Fatalf("default format = %q, want auto", got)
	}
}
