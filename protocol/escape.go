package protocol

import "strings"

// Database field values escape control characters so that one logical
// field always fits on one KEY=value line: newline becomes a literal \n,
// tab \t, and backslash \\. Applied symmetrically on encode and decode.

var fieldEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\t", `\t`,
)

// EscapeField encodes a field value for the wire.
func EscapeField(s string) string {
	return fieldEscaper.Replace(s)
}

// UnescapeField decodes a field value received on the wire. Unknown
// escape sequences are kept as-is rather than dropped.
func UnescapeField(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// StuffLine escapes a data line for transmission inside a multi-line
// block: a leading dot is doubled so it cannot be mistaken for the
// sentinel.
func StuffLine(line string) string {
	if strings.HasPrefix(line, Sentinel) {
		return Sentinel + line
	}
	return line
}

// UnstuffLine reverses StuffLine. The caller must have already excluded
// the sentinel line itself.
func UnstuffLine(line string) string {
	if strings.HasPrefix(line, Sentinel+Sentinel) {
		return line[1:]
	}
	return line
}
