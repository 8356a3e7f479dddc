package module

import (
	"time"

	"tasker/internal/core/calendar"
	"tasker/internal/platform/config"
)

// Options controls the tasks module
type Options struct {
	JWTSecret        string        // enables bearer auth when set
	StatementTimeout time.Duration // per statement bound inside transactions
	CalendarZone     string
	EventDuration    time.Duration
}

// FromConfig reads CORE_API_JWT_SECRET and TASKS_* values from process env
func FromConfig(cfg config.Conf) Options {
	tc := cfg.Prefix("TASKS_")
	return Options{
		JWTSecret:        cfg.Prefix("CORE_API_").MayString("JWT_SECRET", ""),
		StatementTimeout: tc.MayDuration("STATEMENT_TIMEOUT", 3*time.Second),
		CalendarZone:     tc.MayString("CALENDAR_ZONE", calendar.DefaultZone),
		EventDuration:    tc.MayDuration("EVENT_DURATION", calendar.DefaultDuration),
	}
}
