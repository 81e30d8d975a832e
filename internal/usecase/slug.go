package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/text/transform"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Транслитерация греческих букв (после снятия диакритики) в латиницу
var greekToLatin = map[rune]string{
	'α': "a", 'β': "v", 'γ': "g", 'δ': "d", 'ε': "e", 'ζ': "z", 'η': "i", 'θ': "th",
	'ι': "i", 'κ': "k", 'λ': "l", 'μ': "m", 'ν': "n", 'ξ': "x", 'ο': "o", 'π': "p",
	'ρ': "r", 'σ': "s", 'ς': "s", 'τ': "t", 'υ': "y", 'φ': "f", 'χ': "ch", 'ψ': "ps",
	'ω': "o",
}

// Slugify строит URL-safe slug: снимает диакритику, транслитерирует греческий,
// заменяет всё кроме [a-z0-9] дефисами. Может вернуть пустую строку.
func Slugify(s string) string {
	plain, _, err := transform.String(newDiacriticsStripper(), strings.ToLower(s))
	if err != nil {
		plain = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(plain))
	for _, r := range plain {
		if lat, ok := greekToLatin[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}

	slug := nonSlugChars.ReplaceAllString(b.String(), "-")
	return strings.Trim(slug, "-")
}
