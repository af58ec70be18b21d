// Package validator decides whether a candidate response is deliverable and
// drives the fallback chain that produces candidates: model generation first,
// then knowledge-base lookup, then rule templates, and finally a fixed honest
// failure text when everything is exhausted.
package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/faix-chatbot/engine/internal/engine/model"
)

// noAnswerSignatures mark a response that admits it found nothing. Such a
// response is only acceptable when the intent is one where searching and
// missing is a plausible honest outcome.
var noAnswerSignatures = []string{
	"i couldn't find",
	"i could not find",
	"no specific information",
	"i don't have information",
	"i do not have information",
	"not in my knowledge base",
	"tidak menemui maklumat",
	"tiada maklumat",
	"找不到相关信息",
	"没有相关信息",
}

type Validator struct {
	cfg model.ValidatorConfig
}

func New(cfg model.ValidatorConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks a candidate against the intent and the classification
// band. Low and very-low bands use the strict minimum length: when routing
// was uncertain, a terse answer is more likely a hallucinated one.
func (v *Validator) Validate(text string, intent model.Intent, band model.ConfidenceBand) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("empty response")
	}

	minChars := v.cfg.MinChars
	if band == model.BandLow || band == model.BandVeryLow {
		minChars = v.cfg.StrictMinChars
	}
	if n := utf8.RuneCountInString(trimmed); n < minChars {
		return fmt.Errorf("response too short: %d < %d chars", n, minChars)
	}

	if !intent.IsSearchStyle() {
		lower := strings.ToLower(trimmed)
		for _, sig := range noAnswerSignatures {
			if strings.Contains(lower, sig) {
				return fmt.Errorf("no-answer response for non-search intent %s", intent)
			}
		}
	}
	return nil
}
