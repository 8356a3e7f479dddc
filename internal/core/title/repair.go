package title

import (
	"regexp"
	"unicode/utf8"

	"tasker/internal/core/lexicon"
	"tasker/internal/core/normalize"
)

func (b *Builder) repairRules() []Rule {
	alt := lexicon.Alternation
	lead := regexp.MustCompile(`^` + alt(b.lx.LeadingFillers()) + `\b`)
	trail := regexp.MustCompile(`\b` + alt(b.lx.TrailingFillers()) + `$`)
	intent := regexp.MustCompile(`^(?:eu\s+)?` + alt(b.lx.Intentions()) + `\b`)
	verb := regexp.MustCompile(`^` + alt(b.lx.GenericVerbs()) + `\b`)

	rules := []Rule{
		{Name: "fillers", Apply: func(t normalize.Text) normalize.Text { return stripFillers(t, lead, trail) }},
		{Name: "abbreviations", Apply: b.expandAbbreviations},
		{Name: "intention", Apply: func(t normalize.Text) normalize.Text {
			t, ok := cutLead(t, intent)
			if ok {
				t, _ = cutLead(t, verb)
			}
			return t
		}},
		stripLead("command", alt(b.lx.CommandVerbs())+`\s+(?:(?:um|uma)\s+)?(?:(?:nova|novo)\s+)?`+
			alt(b.lx.CommandNouns())+`(?:\s+(?:para|de|que))?`),
		stripLead("remind_me", `(?:por\s+favor\s+)?(?:voce\s+)?(?:(?:pode|poderia|consegue)\s+)?(?:(?:me|te|nos)\s+)?lembr[a-z]*(?:-me)?\s+(?:de|que)`),
		remove("me_lembrar_de", `\b(?:para\s+)?me\s+lembrar\s+de\b`),
		stripLead("notify_me", `(?:por\s+favor\s+)?(?:(?:me|te|nos)\s+)?avis[a-z]*(?:-me)?\s+(?:de|que|quando)`),
		remove("please", `\bpor\s+favor$`),
		remove("dont_let_me_forget", `\bnao\s+me\s+deixe\s+esquecer\s+de\b`),
		remove("dont_forget", `\b(?:(?:que|para)\s+eu\s+)?nao\s+esqueca\s+de\b`),
		{Name: "ora_hora", Apply: fixOra},
		replace("meio_dia", `\bmeio\s+dia\b`, "meio-dia"),
		replace("meia_noite", `\bmeia\s+noite\b`, "meia-noite"),
	}
	rules = append(rules, contractionRules()...)
	return append(rules,
		Rule{Name: "repeated_words", Apply: collapseRepeats},
		Rule{Name: "trailing_connectors", Apply: b.trimConnectors},
	)
}

// Repair strips spoken scaffolding (fillers, intentions, commands, reminders) around the task
func (b *Builder) Repair(t normalize.Text, tr *Trace) normalize.Text {
	return run("repair", b.repair, t, tr)
}

// stripFillers peels interjections off both ends, "e para" is left for the intention rule
func stripFillers(t normalize.Text, lead, trail *regexp.Regexp) normalize.Text {
	for t.Len() > 1 {
		loc := lead.FindStringIndex(t.Norm())
		if loc == nil || normalize.Grazes(t.Norm(), loc[0], loc[1]) {
			break
		}
		_, j, ok := t.Span(loc[0], loc[1])
		if !ok || j >= t.Len() || (t.At(0).Norm == "e" && j == 1 && t.At(1).Norm == "para") {
			break
		}
		t = t.Cut(0, j)
	}
	for t.Len() > 1 {
		loc := trail.FindStringIndex(t.Norm())
		if loc == nil || normalize.Grazes(t.Norm(), loc[0], loc[1]) {
			break
		}
		i, _, ok := t.Span(loc[0], loc[1])
		if !ok || i == 0 {
			break
		}
		t = t.Cut(i, t.Len())
	}
	return t
}

// expandAbbreviations works on the typed spelling since "pra" is already "para" in Norm
func (b *Builder) expandAbbreviations(t normalize.Text) normalize.Text {
	toks := t.Tokens()
	out := make([]normalize.Token, 0, len(toks))
	for _, tok := range toks {
		if full, ok := b.lx.Abbreviation(normalize.Fold(tok.Orig)); ok {
			out = append(out, normalize.Lit(full)...)
			continue
		}
		out = append(out, tok)
	}
	return normalize.FromTokens(out)
}

var periodWords = map[string]bool{"manha": true, "tarde": true, "noite": true, "am": true, "pm": true}

func isNumber(s string) bool {
	if s == "" || len(s) > 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isOra(s string) bool { return s == "ora" || s == "oras" }

// oraCue reports whether the token at i has a number or a period word beside it
func oraCue(toks []normalize.Token, i int) bool {
	cue := func(k int) bool {
		return k >= 0 && k < len(toks) && (isNumber(toks[k].Norm) || periodWords[toks[k].Norm])
	}
	return cue(i-1) || cue(i+1)
}

// fixOra reads "ora(s)" as "hora(s)" next to a number or a period word
func fixOra(t normalize.Text) normalize.Text {
	toks := t.Tokens()
	changed := false
	for i, tok := range toks {
		if isOra(tok.Norm) && oraCue(toks, i) {
			toks[i] = normalize.Token{Orig: "h" + tok.Norm, Norm: "h" + tok.Norm}
			changed = true
		}
	}
	if !changed {
		return t
	}
	return normalize.FromTokens(toks)
}

// collapseRepeats turns "de de" into "de", single letters are left alone
func collapseRepeats(t normalize.Text) normalize.Text {
	toks := t.Tokens()
	out := make([]normalize.Token, 0, len(toks))
	for _, tok := range toks {
		if n := len(out); n > 0 && out[n-1].Norm == tok.Norm && utf8.RuneCountInString(tok.Norm) >= 2 {
			continue
		}
		out = append(out, tok)
	}
	return normalize.FromTokens(out)
}
