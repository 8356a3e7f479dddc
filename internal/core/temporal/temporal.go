// Package temporal finds dates and clock times in folded pt-BR text
//
// Every matcher is a named rule returning the byte span it consumed and the value it read.
// Rules within a stage are kept in priority order and the first hit wins.
// Matchers never read the clock, the caller passes now.
package temporal

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"tasker/internal/core/lexicon"
	"tasker/internal/core/normalize"
)

// Span is a half open byte range of the searched text
type Span struct {
	Start int
	End   int
}

// Date is a civil calendar day
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in its own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddDays returns the calendar day n days after d
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// In returns midnight of d in loc
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String formats d as YYYY-MM-DD
func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day) }

// ParseDate reads a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("temporal: parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// civil builds a date and rejects one that rolled over (31 de fevereiro)
func civil(y, m, d int) (Date, bool) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return Date{}, false
	}
	got := DateOf(time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC))
	if int(got.Month) != m || got.Day != d {
		return Date{}, false
	}
	return got, true
}

// Clock is a time of day on a 24 hour clock
type Clock struct {
	Hour   int
	Minute int
}

// String formats c as HH:MM
func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// clockOf clamps h and m into a valid Clock
func clockOf(h, m int) Clock { return Clock{Hour: clamp(h, 0, 23), Minute: clamp(m, 0, 59)} }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Hit is one rule match
type Hit[T any] struct {
	Rule  string
	Span  Span
	Value T
}

type rule[T any] struct {
	name  string
	match func(s string, now time.Time) (Span, T, bool)
}

// find returns the submatches of re in s that sit on whole words
func find(re *regexp.Regexp, s string) [][]int {
	all := re.FindAllStringSubmatchIndex(s, -1)
	out := all[:0]
	for _, loc := range all {
		if !normalize.Grazes(s, loc[0], loc[1]) {
			out = append(out, loc)
		}
	}
	return out
}

// findOne is the leftmost whole word submatch of re in s, nil when there is none
func findOne(re *regexp.Regexp, s string) []int {
	if locs := find(re, s); len(locs) > 0 {
		return locs[0]
	}
	return nil
}

// first runs rules in order and returns the first hit
func first[T any](rules []rule[T], s string, now time.Time) (Hit[T], bool) {
	for _, r := range rules {
		if sp, v, ok := r.match(s, now); ok {
			return Hit[T]{Rule: r.name, Span: sp, Value: v}, true
		}
	}
	return Hit[T]{}, false
}

// Matcher holds the compiled patterns for one lexicon, safe for concurrent use
type Matcher struct {
	lx   *lexicon.Lexicon
	frag numberFragments

	isoDate     *regexp.Regexp
	numericDate *regexp.Regexp
	wordDate    *regexp.Regexp
	hoje        *regexp.Regexp
	depois      *regexp.Regexp
	amanha      *regexp.Regexp
	offset      *regexp.Regexp
	weekday     *regexp.Regexp

	midnight    *regexp.Regexp
	noon        *regexp.Regexp
	hourDigits  *regexp.Regexp
	hourSpelled *regexp.Regexp
	bareHour    *regexp.Regexp
	trailMin    *regexp.Regexp
	trailPeriod *regexp.Regexp
	trailMark   *regexp.Regexp

	spelledPeriod *regexp.Regexp
	pm, am      *regexp.Regexp

	dateRules    []rule[Date]
	clockRules   []rule[Clock]
	contextRules []rule[Clock]
}

var (
	defaultOnce    sync.Once
	defaultMatcher *Matcher
)

// Default returns the matcher over the embedded lexicon
func Default() *Matcher {
	defaultOnce.Do(func() { defaultMatcher = New(lexicon.Default()) })
	return defaultMatcher
}

// New compiles the matchers for lx
func New(lx *lexicon.Lexicon) *Matcher {
	m := &Matcher{lx: lx}
	m.compileNumbers()
	m.compileDates()
	m.compileClocks()
	m.compileContexts()
	return m
}

// Date finds the first explicit or relative date in s
func (m *Matcher) Date(s string, now time.Time) (Hit[Date], bool) {
	return first(m.dateRules, s, now)
}

// Clock finds the first explicit time of day in s
func (m *Matcher) Clock(s string) (Hit[Clock], bool) {
	return first(m.clockRules, s, time.Time{})
}

// Context infers a time of day from period words in s, for text with no explicit time
func (m *Matcher) Context(s string, now time.Time) (Hit[Clock], bool) {
	return first(m.contextRules, s, now)
}

// Rules lists the rule names per stage in priority order
func (m *Matcher) Rules() map[string][]string {
	return map[string][]string{
		"date":    ruleNames(m.dateRules),
		"clock":   ruleNames(m.clockRules),
		"context": ruleNames(m.contextRules),
	}
}

func ruleNames[T any](rs []rule[T]) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.name
	}
	return out
}
