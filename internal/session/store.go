package session

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/snapcore/go-pofile"
)

// ReadTranslations decodes a translations file: a mapping from lookup
// key to translation. Keys of messages with a context contain the EOT
// control character, which YAML spells "\x04" in a double quoted string.
// JSON input is accepted as well.
func ReadTranslations(r io.Reader) (pofile.Translations, error) {
	var t pofile.Translations
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		if err == io.EOF {
			return pofile.Translations{}, nil
		}
		return nil, fmt.Errorf("cannot decode translations: %w", err)
	}
	if t == nil {
		t = pofile.Translations{}
	}
	return t, nil
}

// ReadTranslationsFile is like ReadTranslations, reading from filename.
func ReadTranslationsFile(filename string) (pofile.Translations, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTranslations(f)
}

// WriteTranslations encodes t in the format read by ReadTranslations.
func WriteTranslations(w io.Writer, t pofile.Translations) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]string(t)); err != nil {
		return err
	}
	return enc.Close()
}
