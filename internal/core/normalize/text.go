package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Token is one word of an utterance as typed and as matched
type Token struct {
	Orig string
	Norm string
}

// Text is an immutable aligned token sequence
// Norm() is what patterns run against, String() is what users read
// the zero value is an empty text
type Text struct {
	toks []Token
	norm string
	offs []int // byte offset of each token inside norm
}

// FromTokens builds a Text over a copy of toks, tokens with an empty Norm are dropped
func FromTokens(toks []Token) Text {
	kept := make([]Token, 0, len(toks))
	for _, t := range toks {
		if t.Norm != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return Text{}
	}

	var b strings.Builder
	offs := make([]int, len(kept))
	for i, t := range kept {
		if i > 0 {
			b.WriteByte(' ')
		}
		offs[i] = b.Len()
		b.WriteString(t.Norm)
	}
	return Text{toks: kept, norm: b.String(), offs: offs}
}

// Lit turns literal replacement text into tokens
func Lit(s string) []Token { return Align(s).toks }

// Norm returns the folded tokens joined by single spaces
func (t Text) Norm() string { return t.norm }

// String returns the original tokens joined by single spaces
func (t Text) String() string {
	if len(t.toks) == 0 {
		return ""
	}
	parts := make([]string, len(t.toks))
	for i, tok := range t.toks {
		parts[i] = tok.Orig
	}
	return strings.Join(parts, " ")
}

// Len returns the number of tokens
func (t Text) Len() int { return len(t.toks) }

// Empty reports whether t has no tokens
func (t Text) Empty() bool { return len(t.toks) == 0 }

// Tokens returns a copy of the tokens
func (t Text) Tokens() []Token { return append([]Token(nil), t.toks...) }

// At returns token i
func (t Text) At(i int) Token { return t.toks[i] }

// Span maps a byte range of Norm() to the half open token range it touches
// a range that only grazes a token still claims the whole token
func (t Text) Span(start, end int) (i, j int, ok bool) {
	if start >= end || len(t.toks) == 0 {
		return 0, 0, false
	}
	i, j = -1, -1
	for k, off := range t.offs {
		tokEnd := off + len(t.toks[k].Norm)
		if tokEnd <= start || off >= end {
			continue
		}
		if i < 0 {
			i = k
		}
		j = k + 1
	}
	if i < 0 {
		return 0, 0, false
	}
	return i, j, true
}

// Grazes reports whether s[start:end] cuts into a hyphenated word, as "segunda" does
// inside "segunda-via"; regexp \b treats the hyphen as a boundary, callers must not
func Grazes(s string, start, end int) bool {
	if start >= 2 && s[start-1] == '-' && isWordByte(s[start-2]) {
		return true
	}
	return end+1 < len(s) && s[end] == '-' && isWordByte(s[end+1])
}

// isWordByte is a letter byte of folded text, any byte of a multibyte rune counts
func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// Cut returns t without tokens [i, j)
func (t Text) Cut(i, j int) Text { return t.Splice(i, j) }

// Splice returns t with tokens [i, j) replaced by repl
func (t Text) Splice(i, j int, repl ...Token) Text {
	if i < 0 {
		i = 0
	}
	if j > len(t.toks) {
		j = len(t.toks)
	}
	if i > j {
		return t
	}
	out := make([]Token, 0, len(t.toks)-(j-i)+len(repl))
	out = append(out, t.toks[:i]...)
	out = append(out, repl...)
	out = append(out, t.toks[j:]...)
	return FromTokens(out)
}

// Filter keeps the tokens keep accepts, in order
func (t Text) Filter(keep func(Token) bool) Text {
	out := make([]Token, 0, len(t.toks))
	for _, tok := range t.toks {
		if keep(tok) {
			out = append(out, tok)
		}
	}
	return FromTokens(out)
}

// Match is one regexp hit on Norm() expressed in tokens
type Match struct {
	text  Text
	loc   []int
	First int // first token index
	Last  int // one past the last token index
}

// Tokens returns the tokens the whole match covers
func (m Match) Tokens() []Token { return m.text.toks[m.First:m.Last] }

// Group returns the tokens submatch n covers, nil when the group did not participate
func (m Match) Group(n int) []Token {
	if 2*n+1 >= len(m.loc) || m.loc[2*n] < 0 {
		return nil
	}
	i, j, ok := m.text.Span(m.loc[2*n], m.loc[2*n+1])
	if !ok {
		return nil
	}
	return m.text.toks[i:j]
}

// Norm returns the matched folded text for submatch n
func (m Match) Norm(n int) string {
	if 2*n+1 >= len(m.loc) || m.loc[2*n] < 0 {
		return ""
	}
	return m.text.norm[m.loc[2*n]:m.loc[2*n+1]]
}

// Replace rewrites every match of re on Norm() with the tokens fn returns
// returning nil removes the matched tokens; a match whose tokens overlap an earlier one is skipped
// and so is a match that only covers part of a hyphenated word
func (t Text) Replace(re *regexp.Regexp, fn func(Match) []Token) Text {
	locs := re.FindAllStringSubmatchIndex(t.norm, -1)
	if len(locs) == 0 {
		return t
	}
	out := make([]Token, 0, len(t.toks))
	next := 0
	for _, loc := range locs {
		if Grazes(t.norm, loc[0], loc[1]) {
			continue
		}
		i, j, ok := t.Span(loc[0], loc[1])
		if !ok || i < next {
			continue
		}
		out = append(out, t.toks[next:i]...)
		out = append(out, fn(Match{text: t, loc: loc, First: i, Last: j})...)
		next = j
	}
	out = append(out, t.toks[next:]...)
	return FromTokens(out)
}

// Remove drops every match of re
func (t Text) Remove(re *regexp.Regexp) Text {
	return t.Replace(re, func(Match) []Token { return nil })
}

// quoteRunes are the quote marks stripped from the edges of a title
const quoteRunes = "\"'“”„«»‘’"

// TrimQuotes strips quote marks from the start of the first token and the end of the last
func (t Text) TrimQuotes() Text {
	if len(t.toks) == 0 {
		return t
	}
	toks := t.Tokens()
	first := &toks[0]
	first.Orig = strings.TrimLeft(first.Orig, quoteRunes)
	first.Norm = strings.TrimLeft(first.Norm, quoteRunes)
	last := &toks[len(toks)-1]
	last.Orig = strings.TrimRight(last.Orig, quoteRunes)
	last.Norm = strings.TrimRight(last.Norm, quoteRunes)
	return FromTokens(toks)
}

// Capitalize upper cases the first letter of the first token
func (t Text) Capitalize() Text {
	if len(t.toks) == 0 {
		return t
	}
	toks := t.Tokens()
	toks[0].Orig = capFirst(toks[0].Orig)
	return FromTokens(toks)
}

func capFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}
