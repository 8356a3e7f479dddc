// Package testkit provides testing helpers
package testkit

import (
	"strings"
	"testing"
	"time"
)

// BRT is Brasília time without DST, the zone most task fixtures are written in
var BRT = time.FixedZone("BRT", -3*3600)

// At returns a wall clock instant in BRT
func At(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, BRT)
}

// Clock returns a now func pinned to t
func Clock(t time.Time) func() time.Time { return func() time.Time { return t } }

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustNotPanic asserts that fn does not panic
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts that out contains every want
func MustContain(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("expected output to contain %q, got:\n%s", w, out)
		}
	}
}
