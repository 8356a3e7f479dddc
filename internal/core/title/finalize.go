package title

import "tasker/internal/core/normalize"

func (b *Builder) finalizeRules() []Rule {
	return []Rule{
		{Name: "quotes", Apply: normalize.Text.TrimQuotes},
		stripLead("que_eu", `(?:e\s+)?(?:que\s+(?:eu|a\s+gente|vou|iria|devo)|que)`),
		stripLead("leading_e", `e`),
		stripLead("lembrar_de", `(?:me\s+)?lembr[a-z]*\s+de`),
		stripLead("que_eu_lembre", `(?:que\s+(?:eu|a\s+gente)\s+)?lembr[a-z]*\s+de`),
		remove("embedded_lembrar", `\b(?:me\s+)?lembrar[a-z]*\s+de\b`),
		{Name: "trailing_connectors", Apply: b.trimConnectors},
		{Name: "capitalize", Apply: normalize.Text.Capitalize},
	}
}

// Finalize removes leftover leading connectives, dangling connectors and capitalizes
func (b *Builder) Finalize(t normalize.Text, tr *Trace) normalize.Text {
	return run("finalize", b.finalize, t, tr)
}
