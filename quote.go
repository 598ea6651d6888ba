package pofile

import (
	"strings"
)

// maxLineWidth is the number of escaped characters per quoted line.
const maxLineWidth = 70

var (
	escaper   = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t", `\"`, `"`)
)

// escapeString escapes backslashes, double quotes, newlines and tabs.
func escapeString(s string) string {
	return escaper.Replace(s)
}

// unescapeString reverses escapeString. Escapes are matched left to right
// in a single pass, so an escaped backslash is never combined with the
// character after it. Unknown escapes are kept as they are.
func unescapeString(s string) string {
	return unescaper.Replace(s)
}

// quoteString formats s as the value of a msgid, msgstr or similar
// keyword. Escaped strings longer than maxLineWidth are cut into chunks of
// maxLineWidth characters, one quoted chunk per line. The cut ignores
// escape sequences, so an escape may straddle two lines.
func quoteString(s string) string {
	if s == "" {
		return `""`
	}

	escaped := []rune(escapeString(s))
	if len(escaped) <= maxLineWidth {
		return `"` + string(escaped) + `"`
	}

	var lines []string
	for i := 0; i < len(escaped); i += maxLineWidth {
		end := i + maxLineWidth
		if end > len(escaped) {
			end = len(escaped)
		}
		lines = append(lines, `"`+string(escaped[i:end])+`"`)
	}
	return strings.Join(lines, "\n")
}
