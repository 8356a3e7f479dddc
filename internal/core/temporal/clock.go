package temporal

import (
	"regexp"
	"strconv"
	"time"

	"tasker/internal/core/normalize"
)

func (m *Matcher) compileClocks() {
	mins := `(?:\s+e\s+(` + m.frag.minutes + `)\b(?:\s+minutos?\b)?)?`

	m.midnight = regexp.MustCompile(`\b(?:(?:as|a|ao)\s+)?meia[\s-]?noite\b` + mins)
	m.noon = regexp.MustCompile(`\b(?:(?:as|a|ao)\s+)?meio[\s-]?dia\b` + mins)
	m.hourDigits = regexp.MustCompile(`\b(?:(as|a)\s+)?(\d{1,2})\s*(?:horas|hora|hs|h)\b` + mins)
	m.hourSpelled = regexp.MustCompile(`\b(?:(as|a)\s+)?(` + m.frag.spelled + `)\s+(?:horas|hora)\b` + mins)
	m.bareHour = regexp.MustCompile(`\b(?:(as|a)\s+)?(\d{1,2})(?:[:h](\d{2}))?\b`)
	m.trailMin = regexp.MustCompile(`^\s+e\s+(` + m.frag.minutes + `)\b(?:\s+minutos?\b)?`)
	m.trailPeriod = regexp.MustCompile(`^\s+(?:da|de|a)\s+(?:manha|tarde|noite|madrugada)\b`)
	m.trailMark = regexp.MustCompile(`^\s+(?:am|pm|oras?)\b`)
	m.spelledPeriod = regexp.MustCompile(`\b(as|a)\s+(` + m.frag.spelled + `)((?:\s+e\s+(` + m.frag.minutes +
		`)\b(?:\s+minutos?\b)?)?)\s+(?:da|de)\s+(?:manha|tarde|noite|madrugada)\b`)
	m.pm = regexp.MustCompile(`\b(?:tarde|noite|pm)\b`)
	m.am = regexp.MustCompile(`\b(?:manha|am)\b`)

	// "as 9 horas" is a stronger signal than a bare 9, so it goes first
	m.clockRules = []rule[Clock]{
		{name: "meia_noite", match: m.fixedClock(m.midnight, 0)},
		{name: "meio_dia", match: m.fixedClock(m.noon, 12)},
		{name: "horas", match: m.matchHours(m.hourDigits, false)},
		{name: "horas_por_extenso", match: m.matchHours(m.hourSpelled, true)},
		{name: "hora_solta", match: m.matchBareHour},
		{name: "extenso_com_periodo", match: m.matchSpelledPeriod},
	}
}

// fixedClock reads meia-noite and meio-dia, optionally followed by "e meia"
func (m *Matcher) fixedClock(re *regexp.Regexp, hour int) func(string, time.Time) (Span, Clock, bool) {
	return func(s string, _ time.Time) (Span, Clock, bool) {
		loc := findOne(re, s)
		if loc == nil {
			return Span{}, Clock{}, false
		}
		minute := 0
		if loc[2] >= 0 {
			minute, _ = m.Number(s[loc[2]:loc[3]])
		}
		return Span{loc[0], loc[1]}, clockOf(hour, minute), true
	}
}

// matchHours reads [as] HH h|horas [e MM]
func (m *Matcher) matchHours(re *regexp.Regexp, spelled bool) func(string, time.Time) (Span, Clock, bool) {
	return func(s string, _ time.Time) (Span, Clock, bool) {
		for _, loc := range find(re, s) {
			raw := s[loc[4]:loc[5]]
			var h int
			var ok bool
			if spelled {
				h, ok = m.Number(raw)
				ok = ok && h <= 23
			} else {
				h, ok = atoi(raw)
			}
			if !ok {
				continue
			}
			minute := 0
			if loc[6] >= 0 {
				minute, _ = m.Number(s[loc[6]:loc[7]])
			}
			return Span{loc[0], loc[1]}, m.period(s, h, minute), true
		}
		return Span{}, Clock{}, false
	}
}

// matchBareHour reads [as] HH[:MM|hMM], a lone number needs some cue it is an hour
// a trailing am, pm or mis-heard "oras" is a cue and joins the span
func (m *Matcher) matchBareHour(s string, _ time.Time) (Span, Clock, bool) {
	for _, loc := range find(m.bareHour, s) {
		h, _ := atoi(s[loc[4]:loc[5]])
		end := loc[1]
		minute, cue := 0, loc[2] >= 0

		if loc[6] >= 0 {
			minute, _ = atoi(s[loc[6]:loc[7]])
			cue = true
		} else if t := m.trailMin.FindStringSubmatchIndex(s[end:]); t != nil {
			if v, ok := m.Number(s[end+t[2] : end+t[3]]); ok {
				minute, cue = v, true
				end += t[1]
			}
		}
		if t := m.trailMark.FindStringIndex(s[end:]); t != nil && !normalize.Grazes(s, end, end+t[1]) {
			cue = true
			end += t[1]
		}
		if !cue && m.trailPeriod.MatchString(s[end:]) {
			cue = true
		}
		if cue {
			return Span{loc[0], end}, m.period(s, h, minute), true
		}
	}
	return Span{}, Clock{}, false
}

// matchSpelledPeriod reads "as cinco da tarde", a spelled hour without "horas" needs the
// preposition and a period phrase, the period itself stays out of the span
func (m *Matcher) matchSpelledPeriod(s string, _ time.Time) (Span, Clock, bool) {
	for _, loc := range find(m.spelledPeriod, s) {
		h, ok := m.Number(s[loc[4]:loc[5]])
		if !ok || h > 12 {
			continue
		}
		minute := 0
		if loc[8] >= 0 {
			minute, _ = m.Number(s[loc[8]:loc[9]])
		}
		return Span{loc[0], loc[7]}, m.period(s, h, minute), true
	}
	return Span{}, Clock{}, false
}

// period moves hours up to 12 into the afternoon for tarde/noite/pm and
// maps 12 to midnight for manha/am, then clamps
func (m *Matcher) period(s string, h, minute int) Clock {
	if h <= 12 {
		switch {
		case m.pm.MatchString(s):
			if h != 12 {
				h += 12
			}
		case m.am.MatchString(s):
			if h == 12 {
				h = 0
			}
		}
	}
	return clockOf(h, minute)
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}
