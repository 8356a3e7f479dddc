// Package title turns what is left of an utterance after date and time removal into a task title
//
// Stages run in a fixed order: residual, clean, repair, finalize. Each stage is an ordered
// list of named rules over a normalize.Text, so matching is accent-insensitive while the
// surviving words keep the user's spelling. Every rule is a no-op on text it does not match.
package title

import (
	"regexp"
	"sync"

	"tasker/internal/core/lexicon"
	"tasker/internal/core/normalize"
)

// Rule is one named rewrite
type Rule struct {
	Name  string
	Apply func(normalize.Text) normalize.Text
}

// Step records one rule that changed the text
type Step struct {
	Stage  string `json:"stage" yaml:"stage"`
	Rule   string `json:"rule" yaml:"rule"`
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
}

// Trace collects the steps of one title build, a nil *Trace records nothing
type Trace struct {
	Steps []Step
}

func (tr *Trace) record(stage, rule string, before, after normalize.Text) {
	if tr == nil || sameText(before, after) {
		return
	}
	tr.Steps = append(tr.Steps, Step{Stage: stage, Rule: rule, Before: before.String(), After: after.String()})
}

func sameText(a, b normalize.Text) bool {
	return a.Norm() == b.Norm() && a.String() == b.String()
}

func run(stage string, rules []Rule, t normalize.Text, tr *Trace) normalize.Text {
	for _, r := range rules {
		next := r.Apply(t)
		tr.record(stage, r.Name, t, next)
		t = next
	}
	return t
}

// remove drops every match of pattern
func remove(name, pattern string) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{Name: name, Apply: func(t normalize.Text) normalize.Text { return t.Remove(re) }}
}

// replace rewrites every match of pattern with literal text
func replace(name, pattern, with string) Rule {
	re := regexp.MustCompile(pattern)
	lit := normalize.Lit(with)
	return Rule{Name: name, Apply: func(t normalize.Text) normalize.Text {
		return t.Replace(re, func(normalize.Match) []normalize.Token { return lit })
	}}
}

// stripLead removes a leading match of pattern only when some text follows it
func stripLead(name, pattern string) Rule {
	re := regexp.MustCompile(`^(?:` + pattern + `)\b`)
	return Rule{Name: name, Apply: func(t normalize.Text) normalize.Text {
		out, _ := cutLead(t, re)
		return out
	}}
}

func cutLead(t normalize.Text, re *regexp.Regexp) (normalize.Text, bool) {
	loc := re.FindStringIndex(t.Norm())
	if loc == nil || normalize.Grazes(t.Norm(), loc[0], loc[1]) {
		return t, false
	}
	_, j, ok := t.Span(loc[0], loc[1])
	if !ok || j >= t.Len() {
		return t, false
	}
	return t.Cut(0, j), true
}

// Builder holds the compiled rules for one lexicon, safe for concurrent use
type Builder struct {
	lx       *lexicon.Lexicon
	residual []Rule
	polish   []Rule
	repair   []Rule
	finalize []Rule
}

var (
	defaultOnce    sync.Once
	defaultBuilder *Builder
)

// Default returns the builder over the embedded lexicon
func Default() *Builder {
	defaultOnce.Do(func() { defaultBuilder = New(lexicon.Default()) })
	return defaultBuilder
}

// New compiles the title rules for lx
func New(lx *lexicon.Lexicon) *Builder {
	b := &Builder{lx: lx}
	b.residual = b.residualRules()
	b.polish = contractionRules()
	b.repair = b.repairRules()
	b.finalize = b.finalizeRules()
	return b
}

// Rules lists rule names per stage in order
func (b *Builder) Rules() map[string][]string {
	names := func(rs []Rule) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Name
		}
		return out
	}
	return map[string][]string{
		"residual": names(b.residual),
		"clean":    append([]string{"temporal_words", "connectors"}, names(b.polish)...),
		"repair":   names(b.repair),
		"finalize": names(b.finalize),
	}
}

// contenty is a word that can anchor a connector: alphanumeric, two or more
// characters and not a temporal word; inner hyphens join compounds like guarda-chuva
func (b *Builder) contenty(tok normalize.Token) bool {
	n := tok.Norm
	if len(n) < 2 || b.lx.IsTemporal(n) {
		return false
	}
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c == '-' && i > 0 && i < len(n)-1 && n[i-1] != '-' {
			continue
		}
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// conjunctions only dangle at the end, "ligar e pagar" keeps its e
var conjunctions = map[string]bool{"e": true, "ou": true}

// trimConnectors drops connectors and conjunctions left dangling at the end
func (b *Builder) trimConnectors(t normalize.Text) normalize.Text {
	for t.Len() > 0 {
		last := t.At(t.Len() - 1).Norm
		if !b.lx.IsConnector(last) && !conjunctions[last] {
			break
		}
		t = t.Cut(t.Len()-1, t.Len())
	}
	return t
}
