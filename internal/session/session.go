package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/snapcore/go-pofile"
)

var (
	ErrUnsupportedFileType = errors.New("please upload a .pot or .po file")
	ErrRead                = errors.New("error reading file")
)

var reCatalogExt = regexp.MustCompile(`(?i)\.(pot|po)$`)

// CheckFilename reports whether name looks like a catalog file, judging
// by its extension only.
func CheckFilename(name string) error {
	if !reCatalogExt.MatchString(name) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Base(name))
	}
	return nil
}

// Session holds one catalog being translated: the parsed file, the
// translations entered so far and the target language. Use Open or Load
// to create one. A Session is safe for concurrent use.
type Session struct {
	// As with the catalog cache of a text domain, the mutex must not be
	// copied along with the Session value, so the data lives behind a
	// pointer.
	*session
}

type session struct {
	mu           sync.Mutex
	name         string
	catalog      *pofile.Catalog
	translations pofile.Translations
	language     string
}

// Progress tells how many entries of a session are translated.
type Progress struct {
	Translated int
	Total      int
}

// Open starts a session for the catalog text content read from a file
// called filename. The translation of every entry starts out as its own
// msgid.
func Open(filename, content, language string) (Session, error) {
	if err := CheckFilename(filename); err != nil {
		return Session{}, err
	}
	catalog := pofile.Parse(content)
	return Session{&session{
		name:         reCatalogExt.ReplaceAllString(filepath.Base(filename), ""),
		catalog:      catalog,
		translations: pofile.NewTranslations(catalog),
		language:     language,
	}}, nil
}

// Load is like Open, reading the catalog from path.
func Load(path, language string) (Session, error) {
	if err := CheckFilename(path); err != nil {
		return Session{}, err
	}
	content, err := pofile.ReadFile(path)
	if err != nil {
		return Session{}, fmt.Errorf("%w %s: %v", ErrRead, path, err)
	}
	return Open(path, content, language)
}

// Name is the file name the session was opened with, without extension.
func (s Session) Name() string {
	return s.name
}

// Catalog returns the parsed catalog. It must not be modified.
func (s Session) Catalog() *pofile.Catalog {
	return s.catalog
}

// Translation returns the current translation stored for key.
func (s Session) Translation(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.translations[key]
}

// SetTranslation records the translation for key.
func (s Session) SetTranslation(key, translation string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translations.Set(key, translation)
}

// Translations returns a copy of the current translations.
func (s Session) Translations() pofile.Translations {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := make(pofile.Translations, len(s.translations))
	for k, v := range s.translations {
		t[k] = v
	}
	return t
}

// Merge applies the non-empty translations whose key belongs to an entry
// of the catalog and returns how many were applied.
func (s Session) Merge(translations pofile.Translations) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.catalog.Entries {
		key := s.catalog.Entries[i].Key()
		if msgstr := translations[key]; msgstr != "" {
			s.translations.Set(key, msgstr)
			n++
		}
	}
	return n
}

// Reset throws away all edits.
func (s Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translations = pofile.NewTranslations(s.catalog)
}

// Search returns the entries matching term, see pofile.Filter.
func (s Session) Search(term string) []pofile.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pofile.Filter(s.catalog.Entries, s.translations, term)
}

// Progress counts the translated entries.
func (s Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{
		Translated: s.translations.Translated(s.catalog),
		Total:      len(s.catalog.Entries),
	}
}

// Language returns the target language tag.
func (s Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetLanguage changes the target language tag. The tag is not validated.
func (s Session) SetLanguage(language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = strings.TrimSpace(language)
}

// ExportName returns the file name offered for the exported catalog:
// <name>-<language>.po
func (s Session) ExportName() string {
	return fmt.Sprintf("%s-%s.po", s.name, s.Language())
}

// Export serializes the catalog with the current translations and
// returns the export file name along with the PO text.
func (s Session) Export() (name, content string) {
	s.mu.Lock()
	language := s.language
	content = pofile.Serialize(s.catalog, s.translations, language)
	s.mu.Unlock()
	return fmt.Sprintf("%s-%s.po", s.name, language), content
}
