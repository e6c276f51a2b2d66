// Package slugs turns free text into URL segments for page documents.
package slugs

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	transliterations = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")
	whitespaceRun    = regexp.MustCompile(`\s+`)
	disallowed       = regexp.MustCompile(`[^\w-]+`)
	hyphenRun        = regexp.MustCompile(`-{2,}`)
)

// Format returns the final slug for text: lowercase ASCII word characters
// separated by single hyphens, with no hyphen at either end.
// Format(Format(s)) == Format(s) for every s.
func Format(text string) string {
	return strings.Trim(normalize(text), "-")
}

// LiveFormat is the variant applied while a value is still being typed. It
// keeps a single leading or trailing hyphen so that a trailing space does not
// disappear before the next word is entered.
func LiveFormat(text string) string {
	return normalize(text)
}

// IsFormatted reports whether value is already in Format's output form.
func IsFormatted(value string) bool {
	return Format(value) == value
}

func normalize(text string) string {
	out := strings.ToLower(text)
	out = transliterations.Replace(out)
	out = stripMarks(out)
	out = whitespaceRun.ReplaceAllString(out, "-")
	out = disallowed.ReplaceAllString(out, "")
	return hyphenRun.ReplaceAllString(out, "-")
}

func stripMarks(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}
