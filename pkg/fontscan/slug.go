package fontscan

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ClassPrefix is prepended to every generated class token.
const ClassPrefix = "f-"

var lower = cases.Lower(language.Und)

// Slug folds a family name into a class-token safe form: accents are stripped,
// letters lowercased and every run of other characters becomes a single dash.
//
//	Slug("Fira Code")   // "fira-code"
//	Slug("Crème Brûlée") // "creme-brulee"
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = lower.String(folded)

	var b strings.Builder
	dash := false
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// Class returns the class token for a family name.
func Class(name string) string {
	s := Slug(name)
	if s == "" {
		s = "font"
	}
	return ClassPrefix + s
}
