package normalize

// asrFixes maps folded tokens the recognizer tends to emit to the word that was meant
// keys and values are both folded, and no value is itself a key so the mapping is a fixed point
var asrFixes = map[string]string{
	"man":   "manha", // "de man" is a clipped "de manhã"
	"aman":  "amanha",
	"amanh": "amanha",
	"amana": "amanha",
	"p/":    "para",
	"pro":   "para",
	"pra":   "para",
}

// correctASR rewrites one folded token
func correctASR(tok string) string {
	if v, ok := asrFixes[tok]; ok {
		return v
	}
	return tok
}
