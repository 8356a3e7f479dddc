package testkit

import (
	"testing"
	"time"
)

// Swap points a package level seam (a now func, a pool opener, a decoder hook) at
// replacement until the test ends
func Swap[T any](tb testing.TB, target *T, replacement T) {
	tb.Helper()
	prev := *target
	*target = replacement
	tb.Cleanup(func() { *target = prev })
}

// PinClock freezes a clock seam at the given instant, relative dates in a test then
// resolve against it
func PinClock(tb testing.TB, clock *func() time.Time, at time.Time) {
	tb.Helper()
	Swap(tb, clock, Clock(at))
}
