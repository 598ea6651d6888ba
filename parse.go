package pofile

import (
	"regexp"
	"strconv"
	"strings"
)

// maxPluralForms bounds the msgstr[N] slots kept per entry.
const maxPluralForms = 6

var (
	reKeyword      = regexp.MustCompile(`^(msgid|msgstr|msgctxt|msgid_plural)(\s+"(.*)"|$)`)
	rePluralMsgstr = regexp.MustCompile(`^msgstr\[(\d+)\](\s+"(.*)"|$)`)
	reString       = regexp.MustCompile(`^"(.*)"$`)
)

// entryBuilder accumulates an entry field by field. It only leaves the
// parser as a finished Entry.
type entryBuilder struct {
	entry Entry
	// seenMsgid is set once the msgid keyword of this entry was read. Any
	// comment, msgctxt or msgid after that point belongs to the next entry.
	seenMsgid bool
}

type parser struct {
	strict bool

	header   strings.Builder
	inHeader bool
	entries  []Entry
	current  *entryBuilder

	// field is the keyword whose quoted fragments are being collected,
	// or "" when no field is in progress. slot is the msgstr[N] index.
	field     string
	slot      int
	fragments []string
}

// Parse reads the text of a POT or PO file into a Catalog.
//
// Parse never fails: lines it does not recognize are skipped, so malformed
// input results in fewer entries rather than an error.
func Parse(content string) *Catalog {
	catalog, _ := parse(content, false)
	return catalog
}

// ParseStrict is like Parse, but returns a *FormatError for the first line
// that is neither blank, a comment, a keyword line nor the continuation of
// a field in progress.
func ParseStrict(content string) (*Catalog, error) {
	return parse(content, true)
}

func parse(content string, strict bool) (*Catalog, error) {
	p := &parser{strict: strict, inHeader: true}
	for i, line := range strings.Split(content, "\n") {
		if reason := p.parseLine(strings.TrimSpace(line)); reason != "" {
			return nil, &FormatError{Line: i + 1, Reason: reason}
		}
	}
	p.finishEntry()

	return &Catalog{
		Header:  strings.TrimSpace(p.header.String()),
		Entries: p.entries,
	}, nil
}

// parseLine consumes one trimmed line. In strict mode it returns the
// reason the line was rejected, if any.
func (p *parser) parseLine(line string) (reason string) {
	if line == "" {
		if p.field != "" && len(p.fragments) > 0 {
			p.flushField()
		}
		return ""
	}

	if strings.HasPrefix(line, "#") {
		p.parseComment(line)
		return ""
	}

	if m := reKeyword.FindStringSubmatch(line); m != nil {
		p.startField(m[1], 0, m[3])
		return ""
	}

	if m := rePluralMsgstr.FindStringSubmatch(line); m != nil {
		slot, err := strconv.Atoi(m[1])
		if err != nil || slot >= maxPluralForms {
			if p.strict {
				return "plural form index out of range: " + m[1]
			}
			return ""
		}
		p.startField("msgstr[]", slot, m[3])
		return ""
	}

	if m := reString.FindStringSubmatch(line); m != nil {
		if p.field == "" {
			if p.strict {
				return "string continuation outside of a field"
			}
			return ""
		}
		p.fragments = append(p.fragments, m[1])
		return ""
	}

	if p.strict {
		return "unrecognized line"
	}
	return ""
}

func (p *parser) parseComment(line string) {
	if p.inHeader && strings.HasPrefix(line, "# ") {
		p.header.WriteString(line[2:])
		p.header.WriteByte('\n')
		return
	}

	if p.current != nil && p.current.seenMsgid {
		p.finishEntry()
	}
	e := &p.ensureEntry().entry
	if len(line) < 2 {
		return
	}

	text := strings.TrimSpace(line[2:])
	switch {
	case strings.HasPrefix(line, "#:"):
		e.References = append(e.References, text)
	case strings.HasPrefix(line, "#,"):
		e.Flags = append(e.Flags, text)
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, text)
	case strings.HasPrefix(line, "# "):
		e.Comments = append(e.Comments, text)
	}
}

func (p *parser) startField(keyword string, slot int, inline string) {
	p.inHeader = false
	p.flushField()

	if keyword == "msgid" || keyword == "msgctxt" {
		if p.current != nil && p.current.seenMsgid {
			p.finishEntry()
		}
	}
	b := p.ensureEntry()
	if keyword == "msgid" {
		b.seenMsgid = true
	}

	p.field = keyword
	p.slot = slot
	p.fragments = p.fragments[:0]
	if inline != "" {
		p.fragments = append(p.fragments, inline)
	}
}

func (p *parser) ensureEntry() *entryBuilder {
	if p.current == nil {
		p.current = &entryBuilder{}
	}
	return p.current
}

// flushField assigns the collected fragments to the field in progress.
// Fragments are concatenated before unescaping so that an escape sequence
// split across two lines is still recognized.
func (p *parser) flushField() {
	if p.field == "" {
		return
	}
	if p.current != nil {
		value := unescapeString(strings.Join(p.fragments, ""))
		e := &p.current.entry
		switch p.field {
		case "msgid":
			e.Msgid = value
		case "msgstr":
			e.Msgstr = value
		case "msgctxt":
			e.MsgContext = value
		case "msgid_plural":
			e.MsgidPlural = value
		case "msgstr[]":
			for len(e.MsgstrPlural) <= p.slot {
				e.MsgstrPlural = append(e.MsgstrPlural, "")
			}
			e.MsgstrPlural[p.slot] = value
		}
	}
	p.field = ""
	p.fragments = p.fragments[:0]
}

// finishEntry closes the entry being built. Entries without a msgid, the
// metadata entry included, are dropped.
func (p *parser) finishEntry() {
	p.flushField()
	if p.current == nil {
		return
	}
	if e := p.current.entry; e.Msgid != "" && e.Msgid != `""` {
		p.entries = append(p.entries, e)
	}
	p.current = nil
}
