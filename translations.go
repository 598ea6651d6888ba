package pofile

// Translations maps lookup keys (see Key) to translations entered by a
// user. It is owned by the caller; nothing in this package modifies it
// except Set.
type Translations map[string]string

// NewTranslations returns the starting translations for cat: every entry
// is mapped to its own msgid.
func NewTranslations(cat *Catalog) Translations {
	t := make(Translations, len(cat.Entries))
	for i := range cat.Entries {
		e := &cat.Entries[i]
		t[e.Key()] = e.Msgid
	}
	return t
}

// Set records the translation for key.
func (t Translations) Set(key, translation string) {
	t[key] = translation
}

func (t Translations) find(key string) (string, bool) {
	if msgstr, ok := t[key]; ok && msgstr != "" {
		return msgstr, true
	}
	return "", false
}

// Gettext returns the translation of msgid, or msgid itself if there is
// none.
func (t Translations) Gettext(msgid string) string {
	if msgstr, ok := t.find(msgid); ok {
		return msgstr
	}
	// Fallback to original message
	return msgid
}

// PGettext is like Gettext for a message with a context.
func (t Translations) PGettext(msgctxt, msgid string) string {
	if msgstr, ok := t.find(Key(msgctxt, msgid)); ok {
		return msgstr
	}
	return msgid
}

// Lookup returns the translation of e.
func (t Translations) Lookup(e *Entry) string {
	return t.PGettext(e.MsgContext, e.Msgid)
}

// Translated counts the entries of cat that have a translation different
// from their msgid.
func (t Translations) Translated(cat *Catalog) int {
	n := 0
	for i := range cat.Entries {
		e := &cat.Entries[i]
		if msgstr, ok := t.find(e.Key()); ok && msgstr != e.Msgid {
			n++
		}
	}
	return n
}
