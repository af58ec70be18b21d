// Package langdetect recognizes the utterance's language and extracts literal
// entity spans with deterministic rules. No model calls happen here.
package langdetect

import (
	"strings"
	"unicode"

	"github.com/faix-chatbot/engine/internal/engine/lexicon"
)

// Detect returns the language code for text. Han characters decide Chinese
// immediately; otherwise keyword and marker overlap picks between Malay and
// English, with sessionLang breaking ties. Empty or unreadable text falls back
// to sessionLang, then English.
func Detect(text, sessionLang string) string {
	if strings.TrimSpace(text) == "" {
		return fallback(sessionLang)
	}
	if containsHan(text) {
		return lexicon.LangChinese
	}

	if len(lexicon.Tokenize(text)) == 0 {
		return fallback(sessionLang)
	}

	// Score each side on its own short-form expansion so "yuran brp" counts
	// the berapa marker and "wat r the fees" counts the English stopwords.
	msSet := tokenSet(lexicon.ExpandShortForms(text, lexicon.LangMalay))
	enSet := tokenSet(lexicon.ExpandShortForms(text, lexicon.LangEnglish))

	msScore := overlap(msSet, lexicon.Markers(lexicon.LangMalay)) + overlap(msSet, lexicon.Stopwords(lexicon.LangMalay))
	enScore := overlap(enSet, lexicon.Stopwords(lexicon.LangEnglish))

	switch {
	case msScore > enScore:
		return lexicon.LangMalay
	case enScore > msScore:
		return lexicon.LangEnglish
	case sessionLang == lexicon.LangMalay:
		return lexicon.LangMalay
	default:
		return lexicon.LangEnglish
	}
}

func fallback(sessionLang string) string {
	for _, l := range lexicon.SupportedLanguages {
		if sessionLang == l {
			return sessionLang
		}
	}
	return lexicon.LangEnglish
}

func containsHan(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func tokenSet(text string) map[string]struct{} {
	tokens := lexicon.Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func overlap(tokens map[string]struct{}, words []string) int {
	n := 0
	for _, w := range words {
		if _, ok := tokens[w]; ok {
			n++
		}
	}
	return n
}
