package title

import "tasker/internal/core/normalize"

func (b *Builder) residualRules() []Rule {
	return []Rule{
		remove("as_hora", `\b(?:as|a)\s+\d{1,2}(?:[:h]\d{2})?(?:\s*(?:horas|hora|hs|h))?\b`),
		remove("hora_numerica", `\b\d{1,2}(?:[:h]\d{2})?\s*(?:horas|hora|hs|h)\b`),
		remove("horas_soltas", `\bhoras?\b`),
		{Name: "oras_asr", Apply: dropOra},
		{Name: "preposicao_orfa", Apply: b.dropOrphanAs},
	}
}

// Residual strips time fragments that survive span removal ("as", "horas", "10h")
func (b *Builder) Residual(t normalize.Text, tr *Trace) normalize.Text {
	return run("residual", b.residual, t, tr)
}

// dropOrphanAs removes "a"/"as" with nothing contenty after them
func (b *Builder) dropOrphanAs(t normalize.Text) normalize.Text {
	toks := t.Tokens()
	out := toks[:0]
	for i, tok := range toks {
		if tok.Norm == "a" || tok.Norm == "as" {
			if i == len(toks)-1 || !b.contenty(toks[i+1]) {
				continue
			}
		}
		out = append(out, tok)
	}
	return normalize.FromTokens(out)
}

// dropOra removes "ora(s)", a mis-heard "hora(s)", only beside a number or a period word
func dropOra(t normalize.Text) normalize.Text {
	toks := t.Tokens()
	out := make([]normalize.Token, 0, len(toks))
	for i, tok := range toks {
		if isOra(tok.Norm) && oraCue(toks, i) {
			continue
		}
		out = append(out, tok)
	}
	return normalize.FromTokens(out)
}
