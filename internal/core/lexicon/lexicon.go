// Package lexicon loads the pt-BR word tables from the embedded lexicon.json
// It freezes weekday, month and number-word maps plus the word sets the title stages use
// A loaded Lexicon is read only and safe to share between goroutines
package lexicon

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"tasker/internal/core/normalize"
)

//go:embed lexicon.json
var embedded []byte

type rawNumbers struct {
	Units        map[string]int `json:"units"`
	Teens        map[string]int `json:"teens"`
	Tens         map[string]int `json:"tens"`
	MinuteIdioms map[string]int `json:"minute_idioms"`
}

type rawFillers struct {
	Leading  []string `json:"leading"`
	Trailing []string `json:"trailing"`
}

type rawLexicon struct {
	Version       int               `json:"version"`
	Locale        string            `json:"locale"`
	Weekdays      map[string]int    `json:"weekdays"`
	Months        map[string]int    `json:"months"`
	Numbers       rawNumbers        `json:"numbers"`
	TemporalWords []string          `json:"temporal_words"`
	Connectors    []string          `json:"connectors"`
	Fillers       rawFillers        `json:"fillers"`
	Abbreviations map[string]string `json:"abbreviations"`
	Intentions    []string          `json:"intentions"`
	GenericVerbs  []string          `json:"generic_verbs"`
	CommandVerbs  []string          `json:"command_verbs"`
	CommandNouns  []string          `json:"command_nouns"`
}

type set map[string]struct{}

func newSet(words []string) set {
	s := make(set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s set) has(w string) bool { _, ok := s[w]; return ok }

// Lexicon is the frozen word table set, every key is in folded form
type Lexicon struct {
	version int
	locale  string

	weekdays map[string]time.Weekday
	months   map[string]time.Month

	units  map[string]int
	teens  map[string]int
	tens   map[string]int
	idioms map[string]int

	temporal   set
	connectors set

	leadFillers  []string
	trailFillers []string
	abbrev       map[string]string
	intentions   []string
	genericVerbs []string
	commandVerbs []string
	commandNouns []string
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the embedded lexicon, decoded once per process
// a broken embedded file is a build defect so it panics
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lx, err := Load(embedded)
		if err != nil {
			panic(err)
		}
		defaultLex = lx
	})
	return defaultLex
}

// Load decodes and validates a lexicon document
func Load(raw []byte) (*Lexicon, error) {
	var rl rawLexicon
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rl); err != nil {
		return nil, fmt.Errorf("lexicon: parse: %w", err)
	}
	if rl.Version <= 0 {
		return nil, fmt.Errorf("lexicon: version must be positive, got %d", rl.Version)
	}

	lx := &Lexicon{
		version:  rl.Version,
		locale:   rl.Locale,
		weekdays: make(map[string]time.Weekday, len(rl.Weekdays)),
		months:   make(map[string]time.Month, len(rl.Months)),
	}

	seenDow := map[int]bool{}
	for name, d := range rl.Weekdays {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("lexicon: weekday %q index %d out of range", name, d)
		}
		seenDow[d] = true
		lx.weekdays[name] = time.Weekday(d)
	}
	if len(seenDow) != 7 {
		return nil, fmt.Errorf("lexicon: weekdays cover %d of 7 days", len(seenDow))
	}

	seenMonth := map[int]bool{}
	for name, m := range rl.Months {
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("lexicon: month %q number %d out of range", name, m)
		}
		seenMonth[m] = true
		lx.months[name] = time.Month(m)
	}
	if len(seenMonth) != 12 {
		return nil, fmt.Errorf("lexicon: months cover %d of 12", len(seenMonth))
	}

	var err error
	if lx.units, err = numberTable("units", rl.Numbers.Units, 0, 9); err != nil {
		return nil, err
	}
	if lx.teens, err = numberTable("teens", rl.Numbers.Teens, 10, 19); err != nil {
		return nil, err
	}
	if lx.tens, err = numberTable("tens", rl.Numbers.Tens, 20, 50); err != nil {
		return nil, err
	}
	if lx.idioms, err = numberTable("minute_idioms", rl.Numbers.MinuteIdioms, 0, 59); err != nil {
		return nil, err
	}

	lx.temporal = newSet(rl.TemporalWords)
	lx.connectors = newSet(rl.Connectors)
	lx.leadFillers = sortedCopy(rl.Fillers.Leading)
	lx.trailFillers = sortedCopy(rl.Fillers.Trailing)
	lx.intentions = sortedCopy(rl.Intentions)
	lx.genericVerbs = sortedCopy(rl.GenericVerbs)
	lx.commandVerbs = sortedCopy(rl.CommandVerbs)
	lx.commandNouns = sortedCopy(rl.CommandNouns)
	lx.abbrev = make(map[string]string, len(rl.Abbreviations))
	for k, v := range rl.Abbreviations {
		lx.abbrev[k] = v
	}

	if err := lx.checkFolded(); err != nil {
		return nil, err
	}
	return lx, nil
}

func numberTable(name string, in map[string]int, lo, hi int) (map[string]int, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("lexicon: numbers.%s is empty", name)
	}
	out := make(map[string]int, len(in))
	for w, v := range in {
		if v < lo || v > hi {
			return nil, fmt.Errorf("lexicon: numbers.%s %q = %d outside [%d,%d]", name, w, v, lo, hi)
		}
		out[w] = v
	}
	return out, nil
}

// checkFolded rejects keys the matchers could never see, since they only read folded text
func (l *Lexicon) checkFolded() error {
	var keys []string
	for k := range l.weekdays {
		keys = append(keys, k)
	}
	for k := range l.months {
		keys = append(keys, k)
	}
	for _, m := range []map[string]int{l.units, l.teens, l.tens, l.idioms} {
		for k := range m {
			keys = append(keys, k)
		}
	}
	for k := range l.abbrev {
		keys = append(keys, k)
	}
	for _, s := range []set{l.temporal, l.connectors} {
		for k := range s {
			keys = append(keys, k)
		}
	}
	for _, ws := range [][]string{l.leadFillers, l.trailFillers, l.intentions, l.genericVerbs, l.commandVerbs, l.commandNouns} {
		keys = append(keys, ws...)
	}
	for _, k := range keys {
		if k == "" || normalize.Fold(k) != k {
			return fmt.Errorf("lexicon: key %q is not in folded form", k)
		}
	}
	return nil
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

// Version returns the lexicon document version
func (l *Lexicon) Version() int { return l.version }

// Locale returns the lexicon locale tag
func (l *Lexicon) Locale() string { return l.locale }

// Weekday resolves a folded weekday name, the -feira suffix is optional
func (l *Lexicon) Weekday(name string) (time.Weekday, bool) {
	d, ok := l.weekdays[strings.TrimSuffix(name, "-feira")]
	return d, ok
}

// Month resolves a folded month name
func (l *Lexicon) Month(name string) (time.Month, bool) {
	m, ok := l.months[name]
	return m, ok
}

// Unit resolves zero..nove
func (l *Lexicon) Unit(w string) (int, bool) { v, ok := l.units[w]; return v, ok }

// Teen resolves dez..dezenove
func (l *Lexicon) Teen(w string) (int, bool) { v, ok := l.teens[w]; return v, ok }

// Tens resolves vinte..cinquenta
func (l *Lexicon) Tens(w string) (int, bool) { v, ok := l.tens[w]; return v, ok }

// MinuteIdiom resolves phrases like "meia" or "um quarto"
func (l *Lexicon) MinuteIdiom(phrase string) (int, bool) { v, ok := l.idioms[phrase]; return v, ok }

// IsTemporal reports whether w belongs to the temporal word set
func (l *Lexicon) IsTemporal(w string) bool { return l.temporal.has(w) }

// IsConnector reports whether w is a connector kept only between content words
func (l *Lexicon) IsConnector(w string) bool { return l.connectors.has(w) }

// Abbreviation returns the expansion of a folded abbreviation
func (l *Lexicon) Abbreviation(w string) (string, bool) { v, ok := l.abbrev[w]; return v, ok }

// WeekdayNames returns the base weekday names sorted
func (l *Lexicon) WeekdayNames() []string { return keys(l.weekdays) }

// MonthNames returns the month names sorted
func (l *Lexicon) MonthNames() []string { return keys(l.months) }

// UnitWords returns the unit number words sorted
func (l *Lexicon) UnitWords() []string { return keys(l.units) }

// TeenWords returns the teen number words sorted
func (l *Lexicon) TeenWords() []string { return keys(l.teens) }

// TensWords returns the tens number words sorted
func (l *Lexicon) TensWords() []string { return keys(l.tens) }

// MinuteIdioms returns the minute idiom phrases sorted
func (l *Lexicon) MinuteIdioms() []string { return keys(l.idioms) }

// TemporalWords returns the temporal words sorted
func (l *Lexicon) TemporalWords() []string { return keys(l.temporal) }

// Connectors returns the connector words sorted
func (l *Lexicon) Connectors() []string { return keys(l.connectors) }

// LeadingFillers returns fillers stripped from the start of a title
func (l *Lexicon) LeadingFillers() []string { return append([]string(nil), l.leadFillers...) }

// TrailingFillers returns fillers stripped from the end of a title
func (l *Lexicon) TrailingFillers() []string { return append([]string(nil), l.trailFillers...) }

// Intentions returns leading intention phrases
func (l *Lexicon) Intentions() []string { return append([]string(nil), l.intentions...) }

// GenericVerbs returns verbs dropped right after an intention phrase
func (l *Lexicon) GenericVerbs() []string { return append([]string(nil), l.genericVerbs...) }

// CommandVerbs returns imperative verbs of "crie uma tarefa" style scaffolding
func (l *Lexicon) CommandVerbs() []string { return append([]string(nil), l.commandVerbs...) }

// CommandNouns returns the nouns of command scaffolding (tarefa, lembrete, ...)
func (l *Lexicon) CommandNouns() []string { return append([]string(nil), l.commandNouns...) }

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Alternation renders words as a regexp alternation for folded text
// longer phrases come first so RE2 leftmost-first picks "tenho que" over "tenho"
// inner spaces match any run of whitespace
func Alternation(words []string) string {
	ws := append([]string(nil), words...)
	sort.Slice(ws, func(i, j int) bool {
		if len(ws[i]) != len(ws[j]) {
			return len(ws[i]) > len(ws[j])
		}
		return ws[i] < ws[j]
	})
	parts := make([]string, len(ws))
	for i, w := range ws {
		q := regexp.QuoteMeta(w)
		parts[i] = strings.ReplaceAll(q, " ", `\s+`)
	}
	return "(?:" + strings.Join(parts, "|") + ")"
}
