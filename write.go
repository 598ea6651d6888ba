package pofile

import (
	"io"
	"strings"
	"text/template"
)

const poTemplateData = `{{ if .Template -}}
{{ range .HeaderLines }}# {{ . }}
{{ end -}}
msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
{{ else -}}
# Translation file for {{ .Language }}
# This file is distributed under the same license as the original.

msgid ""
msgstr ""
"Language: {{ .Language }}\n"
"Content-Type: text/plain; charset=UTF-8\n"
{{ end }}
{{ range .Messages -}}
{{ range .Comments }}# {{ . }}
{{ end -}}
{{ range .ExtractedComments }}#. {{ . }}
{{ end -}}
{{ range .References }}#: {{ . }}
{{ end -}}
{{ range .Flags }}#, {{ . }}
{{ end -}}
{{ if .MsgContext -}}
msgctxt {{ .MsgContext }}
{{ end -}}
msgid {{ .Msgid }}
{{ if .MsgidPlural -}}
msgid_plural {{ .MsgidPlural }}
msgstr[0] {{ .Msgstr }}
msgstr[1] {{ .Msgstr }}
{{ else -}}
msgstr {{ .Msgstr }}
{{ end }}
{{ end -}}
`

var poTemplate = template.Must(template.New("po").Parse(poTemplateData))

// messageData holds the quoted strings of one entry, ready for poTemplate.
type messageData struct {
	*Entry
	MsgContext  string
	Msgid       string
	MsgidPlural string
	Msgstr      string
}

// Write writes cat as a PO file for language to w.
//
// The translation of each entry is looked up in translations by its key
// and falls back to the entry's msgid when missing or empty. Plural
// entries get the same translation for msgstr[0] and msgstr[1].
func Write(w io.Writer, cat *Catalog, translations map[string]string, language string) error {
	return execute(w, cat, func(e *Entry) string {
		return Translations(translations).Lookup(e)
	}, language)
}

// WriteTemplate writes cat as a POT file to w: every msgstr is empty and
// the header comment lines come from cat.Header.
func WriteTemplate(w io.Writer, cat *Catalog) error {
	return execute(w, cat, nil, "")
}

func execute(w io.Writer, cat *Catalog, translate func(*Entry) string, language string) error {
	msgData := make([]*messageData, 0, len(cat.Entries))
	for i := range cat.Entries {
		e := &cat.Entries[i]
		data := &messageData{Entry: e}
		data.Msgid = quoteString(e.Msgid)
		if e.MsgContext != "" {
			data.MsgContext = quoteString(e.MsgContext)
		}
		if e.MsgidPlural != "" {
			data.MsgidPlural = quoteString(e.MsgidPlural)
		}
		data.Msgstr = `""`
		if translate != nil {
			data.Msgstr = quoteString(translate(e))
		}
		msgData = append(msgData, data)
	}

	var headerLines []string
	if cat.Header != "" {
		headerLines = strings.Split(cat.Header, "\n")
	}
	return poTemplate.Execute(w, struct {
		Template    bool
		HeaderLines []string
		Language    string
		Messages    []*messageData
	}{
		Template:    translate == nil,
		HeaderLines: headerLines,
		Language:    language,
		Messages:    msgData,
	})
}

// Serialize returns cat as the text of a PO file for language. See Write.
func Serialize(cat *Catalog, translations map[string]string, language string) string {
	var buf strings.Builder
	if err := Write(&buf, cat, translations, language); err != nil {
		// writing to a strings.Builder does not fail
		panic(err)
	}
	return buf.String()
}
