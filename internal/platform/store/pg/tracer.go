package pg

import (
	"context"
	"strings"

	"tasker/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one statement as seen by the adapter
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement the store adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every query regardless of the root level, slow or failed ones at warn
// args are left out since task titles are user text
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow || ev.Err != nil {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Int("args", argCount(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

func argCount(a any) int {
	if xs, ok := a.([]any); ok {
		return len(xs)
	}
	return 0
}

// compact folds whitespace runs into one space and trims the ends
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
