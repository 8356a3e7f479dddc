// Package extract separates a pt-BR task utterance into a date, a time and a title
//
// Extract is pure: no I/O, no clock reads and no shared mutable state. The same
// transcript and now always give the same Result, and no input makes it fail.
package extract

import (
	"strings"
	"sync"
	"time"

	"tasker/internal/core/lexicon"
	"tasker/internal/core/normalize"
	"tasker/internal/core/temporal"
	"tasker/internal/core/title"
)

// Result is the outcome of one extraction, empty Date or Time mean none was found
type Result struct {
	Title string `json:"title" yaml:"title"`
	Date  string `json:"date,omitempty" yaml:"date,omitempty"`
	Time  string `json:"time,omitempty" yaml:"time,omitempty"`
}

// HasDate reports whether a date was found
func (r Result) HasDate() bool { return r.Date != "" }

// HasTime reports whether a time was found or inferred
func (r Result) HasTime() bool { return r.Time != "" }

// Match is one temporal rule hit as seen in a Trace
type Match struct {
	Rule  string `json:"rule" yaml:"rule"`
	Text  string `json:"text" yaml:"text"`
	Value string `json:"value" yaml:"value"`
}

// Trace explains how a Result was reached
type Trace struct {
	Normalized string       `json:"normalized" yaml:"normalized"`
	Date       *Match       `json:"date,omitempty" yaml:"date,omitempty"`
	Time       *Match       `json:"time,omitempty" yaml:"time,omitempty"`
	Inferred   bool         `json:"inferred,omitempty" yaml:"inferred,omitempty"`
	Residual   string       `json:"residual" yaml:"residual"`
	Cleaned    string       `json:"cleaned" yaml:"cleaned"`
	Steps      []title.Step `json:"steps,omitempty" yaml:"steps,omitempty"`
	Fallback   string       `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// DateRule returns the matched date rule name or ""
func (t Trace) DateRule() string {
	if t.Date == nil {
		return ""
	}
	return t.Date.Rule
}

// TimeRule returns the matched or inferred time rule name or ""
func (t Trace) TimeRule() string {
	if t.Time == nil {
		return ""
	}
	return t.Time.Rule
}

// Extractor bundles a lexicon with its compiled matchers and title rules
type Extractor struct {
	lx     *lexicon.Lexicon
	norm   *normalize.Normalizer
	match  *temporal.Matcher
	titles *title.Builder
}

var (
	defaultOnce      sync.Once
	defaultExtractor *Extractor
)

// Default returns the extractor over the embedded lexicon
func Default() *Extractor {
	defaultOnce.Do(func() { defaultExtractor = New(lexicon.Default()) })
	return defaultExtractor
}

// New builds an extractor for lx
func New(lx *lexicon.Lexicon) *Extractor {
	return &Extractor{
		lx:     lx,
		norm:   normalize.New(),
		match:  temporal.New(lx),
		titles: title.New(lx),
	}
}

// Extract runs the default extractor
func Extract(transcript string, now time.Time) Result {
	return Default().Extract(transcript, now)
}

// Lexicon returns the tables the extractor was built with
func (e *Extractor) Lexicon() *lexicon.Lexicon { return e.lx }

// Rules lists every stage with its rule names in priority order
func (e *Extractor) Rules() map[string][]string {
	out := e.match.Rules()
	for k, v := range e.titles.Rules() {
		out[k] = v
	}
	return out
}

// Extract resolves relative expressions against now
func (e *Extractor) Extract(transcript string, now time.Time) Result {
	return e.run(transcript, now, nil)
}

// ExtractTrace is Extract plus the rules that fired
func (e *Extractor) ExtractTrace(transcript string, now time.Time) (Result, Trace) {
	var tr Trace
	res := e.run(transcript, now, &tr)
	return res, tr
}

func (e *Extractor) run(transcript string, now time.Time, tr *Trace) Result {
	if tr == nil {
		tr = &Trace{}
	}
	original := strings.TrimSpace(transcript)
	text := e.norm.Align(original)
	tr.Normalized = text.Norm()

	var res Result
	if hit, ok := e.match.Date(text.Norm(), now); ok {
		res.Date = hit.Value.String()
		tr.Date = &Match{Rule: hit.Rule, Text: spanText(text, hit.Span), Value: res.Date}
		text = cut(text, hit.Span)
	}

	// time patterns see the text without the date so "dia 5" never reads as 05:00
	clock, ok := e.match.Clock(text.Norm())
	if !ok {
		clock, ok = e.match.Context(text.Norm(), now)
		tr.Inferred = ok
	}
	if ok {
		res.Time = clock.Value.String()
		tr.Time = &Match{Rule: clock.Rule, Text: spanText(text, clock.Span), Value: res.Time}
		text = cut(text, clock.Span)
	}

	steps := &title.Trace{}
	residual := e.titles.Residual(text, steps)
	cleaned := e.titles.Clean(residual, res.HasDate() || res.HasTime(), steps)
	tr.Residual, tr.Cleaned = residual.String(), cleaned.String()

	src := cleaned
	if src.Empty() {
		src = e.norm.Align(original)
	}
	final := e.titles.Finalize(e.titles.Repair(src, steps), steps)
	tr.Steps = steps.Steps

	res.Title = final.String()
	if res.Title == "" {
		res.Title = cleaned.Capitalize().String()
		tr.Fallback = "cleaned"
	}
	if res.Title == "" {
		res.Title = original
		tr.Fallback = "original"
	}
	return res
}

func cut(t normalize.Text, sp temporal.Span) normalize.Text {
	i, j, ok := t.Span(sp.Start, sp.End)
	if !ok {
		return t
	}
	return t.Cut(i, j)
}

func spanText(t normalize.Text, sp temporal.Span) string {
	i, j, ok := t.Span(sp.Start, sp.End)
	if !ok {
		return ""
	}
	return normalize.FromTokens(t.Tokens()[i:j]).String()
}
