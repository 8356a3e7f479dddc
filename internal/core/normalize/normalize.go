// Package normalize folds pt-BR utterances into the canonical token stream the matchers run on
// Pipeline order
// 1 sanitize controls and invalid UTF-8, fold fullwidth forms to ASCII
// 2 split on whitespace and on . , ; (a dot between two digits stays inside the token)
// 3 per token lowercase, canonical decomposition, drop combining and format marks, recompose
// 4 per token ASR corrections (man -> manha, pro -> para, ...)
// 5 join tokens with single spaces
//
// The original spelling of every token is kept next to its folded form so callers can
// match accent-insensitively and still rebuild text with the user's accents and casing
package normalize

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe, transformer chains are pooled
type Normalizer struct{}

// pool of fresh folding chains, a chain is stateful and must not be shared
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			cases.Lower(language.BrazilianPortuguese),
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)), // accents
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF etc
			norm.NFC,
		)
	},
}

var std = New()

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the folded matching form of s using the shared Normalizer
func Normalize(s string) string { return std.Normalize(s) }

// Align returns s as an aligned Text using the shared Normalizer
func Align(s string) Text { return std.Align(s) }

// Normalize returns the folded form of s, equal to Align(s).Norm()
func (n *Normalizer) Normalize(s string) string { return n.Align(s).Norm() }

// Align splits s into tokens and folds each one, dropping tokens that fold to nothing
func (n *Normalizer) Align(s string) Text {
	if s == "" {
		return Text{}
	}
	s = width.Fold.String(Sanitize(s))

	raw := split(s)
	toks := make([]Token, 0, len(raw))
	for _, orig := range raw {
		folded := n.fold(orig)
		if folded == "" {
			continue
		}
		toks = append(toks, Token{Orig: orig, Norm: correctASR(folded)})
	}
	return FromTokens(toks)
}

// Fold lowercases s and strips its diacritics without tokenizing or correcting it
func (n *Normalizer) Fold(s string) string { return n.fold(s) }

// Fold is the package level variant of Normalizer.Fold
func Fold(s string) string { return std.fold(s) }

func (n *Normalizer) fold(s string) string {
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// split cuts s on whitespace and the punctuation the matchers treat as spacing
func split(s string) []string {
	var out []string
	start := -1
	prev := rune(0)
	for i, r := range s {
		if isSeparator(r, prev, s[i+utf8.RuneLen(r):]) {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
		prev = r
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

func isSeparator(r, prev rune, rest string) bool {
	switch {
	case unicode.IsSpace(r):
		return true
	case r == ',' || r == ';':
		return true
	case r == '.':
		// 05.11.2024 stays a single token
		next, _ := utf8.DecodeRuneInString(rest)
		return !(isDigit(prev) && isDigit(next))
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
