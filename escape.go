// Payload escaping for the line-oriented storage format.
//
// A record must never contain a literal line break, so every payload is
// escaped as a single unit before it is written. Backslash is escaped
// first so that the sequences introduced for newline, carriage return and
// tab are never escaped a second time.
package revlog

import "strings"

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// escape makes s safe to embed in a single storage line.
func escape(s string) string {
	return escaper.Replace(s)
}

// unescape reverses escape. Unknown sequences and a trailing lone
// backslash are kept verbatim.
func unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
