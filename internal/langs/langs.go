// Package langs provides the target languages offered to translators and
// guesses a default one from the user's locale settings.
package langs

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLanguage is used when the environment names no usable language.
const DefaultLanguage = "es"

// Language is a target language with its names for display.
type Language struct {
	Code   string
	Name   string
	Native string
}

var commonCodes = []string{"es", "fr", "de", "it", "pt", "ru", "ja", "zh", "ar", "hi"}

// Common returns the languages offered by default, in display order.
func Common() []Language {
	langs := make([]Language, 0, len(commonCodes))
	for _, code := range commonCodes {
		tag := language.Make(code)
		langs = append(langs, Language{
			Code:   code,
			Name:   display.English.Tags().Name(tag),
			Native: display.Self.Name(tag),
		})
	}
	return langs
}

// Name returns the English name of the language identified by code, or
// code itself if it is not a known language tag.
func Name(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}

var osGetenv = os.Getenv

// UserLanguages returns the user's preferred locales, most preferred
// first. LANGUAGE may hold a colon separated list and overrides LC_ALL,
// which overrides LC_MESSAGES, which overrides LANG.
func UserLanguages() []string {
	if languages := osGetenv("LANGUAGE"); languages != "" {
		return strings.Split(languages, ":")
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if locale := osGetenv(name); locale != "" {
			return []string{locale}
		}
	}
	return nil
}

// baseCode reduces a POSIX locale such as en_AU.UTF-8@euro to its ISO 639
// language code.
func baseCode(locale string) (string, bool) {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return "", false
	}
	tag, err := language.Parse(strings.Replace(locale, "_", "-", -1))
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	return base.String(), true
}

// Default returns the language code to translate into when none is given:
// the first usable user language, else DefaultLanguage.
func Default() string {
	for _, locale := range UserLanguages() {
		if code, ok := baseCode(locale); ok {
			return code
		}
	}
	return DefaultLanguage
}
