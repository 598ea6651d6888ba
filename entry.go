// Package pofile reads and writes gettext POT/PO catalogs for
// translation editing.
package pofile

// Entry is one translatable unit of a catalog.
type Entry struct {
	MsgContext  string `json:"msgctxt,omitempty" yaml:"msgctxt,omitempty"`
	Msgid       string `json:"msgid" yaml:"msgid"`
	MsgidPlural string `json:"msgid_plural,omitempty" yaml:"msgid_plural,omitempty"`
	// Msgstr is the translation stored in the file itself. It is
	// informational only: serialization takes translations from a
	// Translations map.
	Msgstr       string   `json:"msgstr,omitempty" yaml:"msgstr,omitempty"`
	MsgstrPlural []string `json:"msgstr_plural,omitempty" yaml:"msgstr_plural,omitempty"`

	Comments          []string `json:"comments,omitempty" yaml:"comments,omitempty"`
	ExtractedComments []string `json:"extracted_comments,omitempty" yaml:"extracted_comments,omitempty"`
	References        []string `json:"references,omitempty" yaml:"references,omitempty"`
	Flags             []string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Key returns the lookup key used to associate a translation with e.
func (e *Entry) Key() string {
	return Key(e.MsgContext, e.Msgid)
}

// Catalog is a parsed POT or PO file. Entries are in file order and never
// include the metadata entry (the one with an empty msgid).
type Catalog struct {
	Header  string  `json:"header" yaml:"header"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Key builds the lookup key for a message: msgid alone, or msgctxt and
// msgid joined by an EOT byte when a context is given.
func Key(msgctxt, msgid string) string {
	if msgctxt == "" {
		return msgid
	}
	return msgctxt + "\x04" + msgid
}
