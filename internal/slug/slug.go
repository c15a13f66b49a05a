// Package slug turns human-readable names into URL- and identifier-safe
// tokens. All functions are deterministic and locale-agnostic: the same
// input produces the same output on every run regardless of environment.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// translit maps common latin diacritics and ligatures to ASCII before
// slugification, so "Café" becomes "cafe" rather than "caf".
var translit = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ç': "c", 'ñ': "n", 'ý': "y", 'ÿ': "y",
	'ß': "ss", 'æ': "ae", 'œ': "oe", 'ð': "d", 'þ': "th",
}

// Make returns the URL-safe slug for a name: lowercase ASCII letters and
// digits with single hyphens between word runs. "My Content Type" becomes
// "my-content-type".
func Make(name string) string {
	return normalize(name, '-')
}

// FieldKey returns the identifier-safe form of a field key: lowercase with
// underscores, so "Sub-Title" becomes "sub_title".
func FieldKey(key string) string {
	return normalize(key, '_')
}

func normalize(s string, sep rune) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if repl, ok := translit[r]; ok {
			if pendingSep && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pendingSep = false
			b.WriteString(repl)
			continue
		}
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			if pendingSep && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Title derives a display name from a slug: hyphens and underscores become
// spaces and each word is title-cased, so "photo-albums" becomes
// "Photo Albums".
func Title(s string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return titleCaser.String(spaced)
}

// IsNumeric reports whether s is a bare non-negative integer, as produced
// by a YAML sequence declared where a mapping was expected.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
