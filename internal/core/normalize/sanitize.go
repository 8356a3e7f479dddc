package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops what a transcript should never carry into matching
// - NUL and ASCII controls (tab, CR and LF become a plain space)
// - DEL (0x7F) and C1 controls U+0080..U+009F
// - invalid UTF-8 bytes
// Clean input is returned unchanged without allocating
func Sanitize(s string) string {
	i := 0
	for i < len(s) {
		c := s[i]
		if c < 0x20 || c == 0x7F {
			break
		}
		if c < 0x80 {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || (r >= 0x80 && r <= 0x9F) {
			break
		}
		i += size
	}
	if i == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\n' || c == '\r' || c == '\t':
			b.WriteByte(' ')
			i++
		case c < 0x20 || c == 0x7F:
			i++
		case c < 0x80:
			b.WriteByte(c)
			i++
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			if !(r == utf8.RuneError && size == 1) && !(r >= 0x80 && r <= 0x9F) {
				b.WriteString(s[i : i+size])
			}
			i += size
		}
	}
	return b.String()
}
