package pofile

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the entries whose msgid, msgctxt or current translation
// contains term, ignoring case. An empty term matches every entry.
func Filter(entries []Entry, translations Translations, term string) []Entry {
	if term == "" {
		return entries
	}

	fold := cases.Fold()
	needle := fold.String(term)
	contains := func(s string) bool {
		return s != "" && strings.Contains(fold.String(s), needle)
	}

	var matches []Entry
	for i := range entries {
		e := &entries[i]
		if contains(e.Msgid) || contains(e.MsgContext) || contains(translations[e.Key()]) {
			matches = append(matches, *e)
		}
	}
	return matches
}
