package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// textMatcher ищет подстроку без учёта регистра и диакритики: "ΚΑΘΡΕ" находит "Καθρέπτης".
// Не потокобезопасен, создаётся на каждый запрос.
type textMatcher struct {
	fold  cases.Caser
	strip transform.Transformer
	query string
}

func newTextMatcher(query string) *textMatcher {
	m := &textMatcher{
		fold:  cases.Fold(),
		strip: newDiacriticsStripper(),
	}
	m.query = m.key(query)
	return m
}

// Match: пустой запрос совпадает со всем, иначе достаточно совпадения в любом поле.
func (m *textMatcher) Match(fields ...string) bool {
	if m.query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(m.key(f), m.query) {
			return true
		}
	}
	return false
}

func (m *textMatcher) key(s string) string {
	folded := m.fold.String(s)
	out, _, err := transform.String(m.strip, folded)
	if err != nil {
		return folded
	}
	return out
}

func newDiacriticsStripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
