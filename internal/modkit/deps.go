// Package modkit provides module wiring and core deps
package modkit

import (
	"time"

	"tasker/internal/modkit/repokit"
	"tasker/internal/platform/config"
	"tasker/internal/platform/logger"
	"tasker/internal/platform/store"
)

// DefaultZone is where "today" is computed when no zone was configured
const DefaultZone = "America/Sao_Paulo"

// Deps holds core dependencies passed to modules
// every store is optional and nil when disabled
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	PG   repokit.TxRunner
	CH   store.Clickhouse
	Lite repokit.TxRunner

	// Now and Zone resolve relative dates, zero values mean time.Now and DefaultZone
	Now  func() time.Time
	Zone *time.Location
}

// FromStore copies the opened backends of st into deps
func FromStore(st *store.Store, cfg config.Conf) Deps {
	if st == nil {
		return Deps{Cfg: cfg}
	}
	return Deps{Log: st.Log, Cfg: cfg, PG: st.PG, CH: st.CH, Lite: st.Lite}
}

// Clock returns the configured reference clock in the configured zone
func (d Deps) Clock() time.Time {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return now().In(d.Location())
}

// Location returns Zone or the default zone, UTC if tzdata is missing
func (d Deps) Location() *time.Location {
	if d.Zone != nil {
		return d.Zone
	}
	if loc, err := time.LoadLocation(DefaultZone); err == nil {
		return loc
	}
	return time.UTC
}
