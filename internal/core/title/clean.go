package title

import "tasker/internal/core/normalize"

// contractionRules fold a preposition and article left side by side by earlier removals
func contractionRules() []Rule {
	return []Rule{
		replace("de_o", `\bde\s+o\b`, "do"),
		replace("de_a", `\bde\s+a\b`, "da"),
		replace("em_o", `\bem\s+o\b`, "no"),
		replace("em_a", `\bem\s+a\b`, "na"),
	}
}

// Clean drops temporal words once a date or time was found and keeps connectors
// only between two contenty words
func (b *Builder) Clean(t normalize.Text, found bool, tr *Trace) normalize.Text {
	if found {
		next := b.dropTemporal(t)
		tr.record("clean", "temporal_words", t, next)
		t = next
	}
	next := b.keepInnerConnectors(t)
	tr.record("clean", "connectors", t, next)
	return run("clean", b.polish, next, tr)
}

func (b *Builder) dropTemporal(t normalize.Text) normalize.Text {
	return t.Filter(func(tok normalize.Token) bool { return !b.lx.IsTemporal(tok.Norm) })
}

// "reuniao de projeto" keeps its de, "reuniao de" loses it
func (b *Builder) keepInnerConnectors(t normalize.Text) normalize.Text {
	toks := t.Tokens()
	out := make([]normalize.Token, 0, len(toks))
	for i, tok := range toks {
		if b.lx.IsConnector(tok.Norm) {
			if i == 0 || i == len(toks)-1 || !b.contenty(toks[i-1]) || !b.contenty(toks[i+1]) {
				continue
			}
		}
		out = append(out, tok)
	}
	return normalize.FromTokens(out)
}
