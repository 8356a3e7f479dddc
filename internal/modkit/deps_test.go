package modkit

import (
	"testing"
	"time"

	"tasker/internal/platform/config"
	"tasker/internal/platform/store"
)

func TestDeps_Clock(t *testing.T) {
	t.Parallel()

	zone := time.FixedZone("BRT", -3*3600)
	fixed := time.Date(2024, time.January, 10, 13, 0, 0, 0, time.UTC)
	d := Deps{Now: func() time.Time { return fixed }, Zone: zone}

	got := d.Clock()
	if !got.Equal(fixed) {
		t.Fatalf("Clock = %v, want %v", got, fixed)
	}
	if got.Location() != zone || got.Hour() != 10 {
		t.Fatalf("Clock not in zone: %v", got)
	}
}

func TestDeps_ZeroValue(t *testing.T) {
	t.Parallel()

	var d Deps
	if d.Location() == nil {
		t.Fatal("zero Deps has no location")
	}
	if d.Clock().IsZero() {
		t.Fatal("zero Deps clock is zero")
	}
}

func TestFromStore(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	if d := FromStore(nil, cfg); d.PG != nil || d.CH != nil || d.Lite != nil {
		t.Fatalf("nil store gave backends: %+v", d)
	}
	d := FromStore(&store.Store{}, cfg)
	if d.PG != nil || d.Lite != nil {
		t.Fatalf("empty store gave backends: %+v", d)
	}
}
