package temporal

import (
	"strconv"
	"strings"

	"tasker/internal/core/lexicon"
)

// pattern fragments for spelled numbers, built from the lexicon tables
type numberFragments struct {
	spelled string // 0..59 in words, "vinte e cinco"
	minutes string // spelled, idiom or one or two digits
}

func (m *Matcher) compileNumbers() {
	units := lexicon.Alternation(m.lx.UnitWords())
	teens := lexicon.Alternation(m.lx.TeenWords())
	tens := lexicon.Alternation(m.lx.TensWords())
	idioms := lexicon.Alternation(m.lx.MinuteIdioms())

	m.frag.spelled = `(?:` + tens + `(?:\s+e\s+` + units + `)?|` + teens + `|` + units + `)`
	m.frag.minutes = `(?:` + idioms + `|` + m.frag.spelled + `|\d{1,2})`
}

// Number reads a minute count: digits, an idiom (meia, um quarto) or words summed
// across "e" ("vinte e cinco"), anything above 59 is rejected
func (m *Matcher) Number(s string) (int, bool) {
	words := strings.Fields(s)
	if len(words) == 0 {
		return 0, false
	}
	if v, ok := m.lx.MinuteIdiom(strings.Join(words, " ")); ok {
		return v, true
	}
	total := 0
	for _, w := range words {
		if w == "e" {
			continue
		}
		v, ok := m.word(w)
		if !ok {
			return 0, false
		}
		total += v
	}
	return total, total <= 59
}

// count reads a quantity for "daqui a N dias", digits are not capped
func (m *Matcher) count(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0
	}
	return m.Number(s)
}

func (m *Matcher) word(w string) (int, bool) {
	if v, ok := m.lx.Tens(w); ok {
		return v, true
	}
	if v, ok := m.lx.Teen(w); ok {
		return v, true
	}
	if v, ok := m.lx.Unit(w); ok {
		return v, true
	}
	if n, err := strconv.Atoi(w); err == nil && n >= 0 {
		return n, true
	}
	return 0, false
}
