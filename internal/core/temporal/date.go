package temporal

import (
	"regexp"
	"strconv"
	"time"

	"tasker/internal/core/lexicon"
)

func (m *Matcher) compileDates() {
	months := lexicon.Alternation(m.lx.MonthNames())
	weekdays := lexicon.Alternation(m.lx.WeekdayNames())

	m.isoDate = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	m.numericDate = regexp.MustCompile(`\b(?:dia\s+)?(\d{1,2})[/.-](\d{1,2})(?:[/.-](\d{4}|\d{2}))?\b`)
	m.wordDate = regexp.MustCompile(`\b(?:dia\s+)?(\d{1,2})\s+de\s+(` + months + `)\b(?:\s+de\s+(\d{4})\b)?`)
	m.hoje = regexp.MustCompile(`\bhoje\b`)
	m.depois = regexp.MustCompile(`\bdepois\s+de\s+amanha\b`)
	m.amanha = regexp.MustCompile(`\bamanha\b`)
	m.offset = regexp.MustCompile(`\b(?:daqui\s+a|em)\s+(\d{1,3}|` + m.frag.spelled + `)\s+(dias?|semanas?)\b`)
	m.weekday = regexp.MustCompile(`\b(?:proxim[ao]\s+)?(` + weekdays + `)(?:-feira)?\b`)

	// explicit forms first, all numeric candidates before any worded one
	m.dateRules = []rule[Date]{
		{name: "iso", match: m.matchISO},
		{name: "numeric", match: m.matchNumeric},
		{name: "worded", match: m.matchWorded},
		{name: "hoje", match: m.fixedOffset(m.hoje, 0)},
		{name: "depois_de_amanha", match: m.fixedOffset(m.depois, 2)},
		{name: "amanha", match: m.fixedOffset(m.amanha, 1)},
		{name: "daqui_a", match: m.matchOffset},
		{name: "weekday", match: m.matchWeekday},
	}
}

func (m *Matcher) matchISO(s string, _ time.Time) (Span, Date, bool) {
	for _, loc := range find(m.isoDate, s) {
		y, _ := strconv.Atoi(s[loc[2]:loc[3]])
		mo, _ := strconv.Atoi(s[loc[4]:loc[5]])
		d, _ := strconv.Atoi(s[loc[6]:loc[7]])
		if date, ok := civil(y, mo, d); ok {
			return Span{loc[0], loc[1]}, date, true
		}
	}
	return Span{}, Date{}, false
}

// dd/mm[/yyyy], the separator may also be - or .
func (m *Matcher) matchNumeric(s string, now time.Time) (Span, Date, bool) {
	for _, loc := range find(m.numericDate, s) {
		d, _ := strconv.Atoi(s[loc[2]:loc[3]])
		mo, _ := strconv.Atoi(s[loc[4]:loc[5]])
		y := now.Year()
		if loc[6] >= 0 {
			y, _ = strconv.Atoi(s[loc[6]:loc[7]])
			if y < 100 {
				y += 2000
			}
		}
		if date, ok := civil(y, mo, d); ok {
			return Span{loc[0], loc[1]}, date, true
		}
	}
	return Span{}, Date{}, false
}

// [dia] dd de <mes> [de yyyy]
func (m *Matcher) matchWorded(s string, now time.Time) (Span, Date, bool) {
	for _, loc := range find(m.wordDate, s) {
		d, _ := strconv.Atoi(s[loc[2]:loc[3]])
		mo, ok := m.lx.Month(s[loc[4]:loc[5]])
		if !ok {
			continue
		}
		y := now.Year()
		if loc[6] >= 0 {
			y, _ = strconv.Atoi(s[loc[6]:loc[7]])
		}
		if date, ok := civil(y, int(mo), d); ok {
			return Span{loc[0], loc[1]}, date, true
		}
	}
	return Span{}, Date{}, false
}

func (m *Matcher) fixedOffset(re *regexp.Regexp, days int) func(string, time.Time) (Span, Date, bool) {
	return func(s string, now time.Time) (Span, Date, bool) {
		loc := findOne(re, s)
		if loc == nil {
			return Span{}, Date{}, false
		}
		return Span{loc[0], loc[1]}, DateOf(now).AddDays(days), true
	}
}

// daqui a N dias, em duas semanas
func (m *Matcher) matchOffset(s string, now time.Time) (Span, Date, bool) {
	loc := findOne(m.offset, s)
	if loc == nil {
		return Span{}, Date{}, false
	}
	n, ok := m.count(s[loc[2]:loc[3]])
	if !ok {
		return Span{}, Date{}, false
	}
	if s[loc[4]:loc[5]][0] == 's' {
		n *= 7
	}
	return Span{loc[0], loc[1]}, DateOf(now).AddDays(n), true
}

// [proxima] <weekday>, always strictly after now
func (m *Matcher) matchWeekday(s string, now time.Time) (Span, Date, bool) {
	loc := findOne(m.weekday, s)
	if loc == nil {
		return Span{}, Date{}, false
	}
	target, ok := m.lx.Weekday(s[loc[2]:loc[3]])
	if !ok {
		return Span{}, Date{}, false
	}
	return Span{loc[0], loc[1]}, DateOf(now).AddDays(daysUntil(now.Weekday(), target)), true
}

// daysUntil is 1..7, the same weekday means a week ahead
func daysUntil(from, to time.Weekday) int {
	delta := (int(to) - int(from) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return delta
}
