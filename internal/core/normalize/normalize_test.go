package normalize

import (
	"regexp"
	"testing"
)

func TestNormalize_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "empty", in: "", out: ""},
		{name: "lowercase and accents", in: "Reunião às 14h", out: "reuniao as 14h"},
		{name: "cedilla", in: "Almoço com a CHEFIA", out: "almoco com a chefia"},
		{name: "combining accent", in: "café amanhã", out: "cafe amanha"},
		{name: "punctuation collapses", in: "leite, pão; ovos.", out: "leite pao ovos"},
		{name: "dot between digits kept", in: "dia 05.11.2024.", out: "dia 05.11.2024"},
		{name: "slash and dash dates kept", in: "5/11 e 10-12", out: "5/11 e 10-12"},
		{name: "whitespace collapses", in: "  a\t\tb\nc   d ", out: "a b c d"},
		{name: "invalid utf8 dropped", in: string([]byte{0xff, 'o', 'i', 0x80}), out: "oi"},
		{name: "zero width removed", in: "ama\u200bnhã", out: "amanha"},
		{name: "fullwidth folds", in: "ＲＥＵＮＩÃＯ", out: "reuniao"},
		{name: "asr man", in: "amanhã de man", out: "amanha de manha"},
		{name: "asr clipped amanha", in: "ligar amanh cedo", out: "ligar amanha cedo"},
		{name: "asr para variants", in: "p/ casa pro mercado pra ver", out: "para casa para mercado para ver"},
		{name: "hyphen words survive", in: "Meio-dia de segunda-feira", out: "meio-dia de segunda-feira"},
		{name: "only punctuation", in: " ,.; ", out: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
			// idempotent on every row
			if again := n.Normalize(got); again != got {
				t.Fatalf("not idempotent: Normalize(%q) = %q", got, again)
			}
		})
	}
}

func TestNormalize_IdempotentOnNoise(t *testing.T) {
	inputs := []string{
		"ＦＵＬＬ，ｗｉｄｔｈ；ｐｕｎｃｔ．",
		" não me　deixe",
		"«Lembrar» de “comprar” pão...",
		"9h30, 10:15 ou 05.11.24",
		"pro pra p/ man aman",
		"İstanbul ǅemal ﬁm",
		"\x00\x1b[31mvermelho\x7f",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestAlign_KeepsOriginalSpelling(t *testing.T) {
	txt := Align("Reunião  com Ana, às 14h")
	if txt.Norm() != "reuniao com ana as 14h" {
		t.Fatalf("Norm() = %q", txt.Norm())
	}
	if txt.String() != "Reunião com Ana às 14h" {
		t.Fatalf("String() = %q", txt.String())
	}
	if txt.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", txt.Len())
	}
	if Normalize("Reunião  com Ana, às 14h") != txt.Norm() {
		t.Fatalf("Normalize and Align disagree")
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("plain text"); got != "plain text" {
		t.Fatalf("clean input changed: %q", got)
	}
	if got := Sanitize("a\tb\nc\x00d\u0085e"); got != "a b cde" {
		t.Fatalf("Sanitize = %q", got)
	}
}

func TestText_Span(t *testing.T) {
	txt := Align("Levar meu pet amanhã")
	// norm is "levar meu pet amanha"
	cases := []struct {
		name       string
		start, end int
		i, j       int
		ok         bool
	}{
		{name: "first token", start: 0, end: 5, i: 0, j: 1, ok: true},
		{name: "partial token claims it", start: 7, end: 8, i: 1, j: 2, ok: true},
		{name: "across tokens", start: 6, end: 13, i: 1, j: 3, ok: true},
		{name: "last token", start: 14, end: 20, i: 3, j: 4, ok: true},
		{name: "separator only", start: 5, end: 6, ok: false},
		{name: "empty range", start: 3, end: 3, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			i, j, ok := txt.Span(tc.start, tc.end)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && (i != tc.i || j != tc.j) {
				t.Fatalf("Span = [%d,%d), want [%d,%d)", i, j, tc.i, tc.j)
			}
		})
	}
}

func TestText_ReplaceKeepsAccents(t *testing.T) {
	txt := Align("Não me deixe esquecer de ligar pra Zé")
	re := regexp.MustCompile(`^nao me deixe esquecer de\s*`)
	got := txt.Remove(re)
	if got.String() != "ligar pra Zé" {
		t.Fatalf("Remove = %q", got.String())
	}

	// replacement tokens come from literal text, later tokens keep their accents
	abbr := regexp.MustCompile(`\bvc\b`)
	got = Align("Vc viu o Zé").Replace(abbr, func(Match) []Token { return Lit("você") })
	if got.String() != "você viu o Zé" {
		t.Fatalf("Replace = %q", got.String())
	}
	if got.Norm() != "voce viu o ze" {
		t.Fatalf("Replace norm = %q", got.Norm())
	}
}

func TestText_ReplaceGroups(t *testing.T) {
	re := regexp.MustCompile(`\b(\d{1,2}) (oras?)\b`)
	got := Align("Às 9 oras na Sé").Replace(re, func(m Match) []Token {
		out := append([]Token(nil), m.Group(1)...)
		if m.Norm(2) == "oras" {
			return append(out, Lit("horas")...)
		}
		return append(out, Lit("hora")...)
	})
	if got.String() != "Às 9 horas na Sé" {
		t.Fatalf("grouped Replace = %q", got.String())
	}
}

func TestText_RemoveLeavesHyphenatedWords(t *testing.T) {
	re := regexp.MustCompile(`\bhoras?\b`)
	tests := []struct{ in, want string }{
		{"fazer hora-extra", "fazer hora-extra"},
		{"pedir segunda-hora", "pedir segunda-hora"},
		{"fazer hora extra", "fazer extra"},
		{"hora-extra e hora", "hora-extra e"},
	}
	for _, tc := range tests {
		if got := Align(tc.in).Remove(re).String(); got != tc.want {
			t.Fatalf("Remove(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGrazes(t *testing.T) {
	s := "pedir segunda-via 5-11 quinta-feira"
	tests := []struct {
		name       string
		start, end int
		want       bool
	}{
		{name: "left half of a compound", start: 6, end: 13, want: true},
		{name: "right half of a compound", start: 14, end: 17, want: true},
		{name: "whole compound", start: 6, end: 17, want: false},
		{name: "digits around a hyphen", start: 18, end: 19, want: false},
		{name: "plain word", start: 0, end: 5, want: false},
		{name: "whole weekday", start: 23, end: 35, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Grazes(s, tc.start, tc.end); got != tc.want {
				t.Fatalf("Grazes(%q) = %v, want %v", s[tc.start:tc.end], got, tc.want)
			}
		})
	}
}

func TestText_TrimQuotesAndCapitalize(t *testing.T) {
	got := Align("“ótima ideia”").TrimQuotes().Capitalize()
	if got.String() != "Ótima ideia" {
		t.Fatalf("TrimQuotes+Capitalize = %q", got.String())
	}
	if !Align(`" "`).TrimQuotes().Empty() {
		t.Fatalf("quote only text should trim to empty")
	}
	if !(Text{}).Capitalize().Empty() {
		t.Fatalf("zero Text should stay empty")
	}
}

func TestText_SpliceAndCut(t *testing.T) {
	txt := Align("pagar o boleto amanhã")
	if got := txt.Cut(3, 4).String(); got != "pagar o boleto" {
		t.Fatalf("Cut = %q", got)
	}
	if got := txt.Splice(1, 2, Lit("do")...).String(); got != "pagar do boleto amanhã" {
		t.Fatalf("Splice = %q", got)
	}
	if got := txt.Splice(3, 1).String(); got != txt.String() {
		t.Fatalf("inverted Splice should be a no-op, got %q", got)
	}
}

func TestText_Filter(t *testing.T) {
	txt := Align("Reunião amanhã às 14h")
	got := txt.Filter(func(tok Token) bool { return tok.Norm != "amanha" })
	if got.String() != "Reunião às 14h" || got.Norm() != "reuniao as 14h" {
		t.Fatalf("Filter = %q / %q", got.String(), got.Norm())
	}
	if !txt.Filter(func(Token) bool { return false }).Empty() {
		t.Fatalf("rejecting every token should leave an empty text")
	}
}
