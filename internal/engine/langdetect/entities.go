package langdetect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/faix-chatbot/engine/internal/engine/lexicon"
	"github.com/faix-chatbot/engine/internal/engine/model"
)

var (
	reCourseCode = regexp.MustCompile(`(?i)\b(` + strings.Join(lexicon.CourseCodePrefixes, "|") + `)(?:\s?\d{4})?\b`)
	reEmail      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	rePhone      = regexp.MustCompile(`\b(?:\+?60|0)1\d[-\s]?\d{3,4}[-\s]?\d{4}\b`)
	reAmount     = regexp.MustCompile(`(?i)\b(?:RM|MYR|USD|\$)\s?\d[\d,]*(?:\.\d{1,2})?\b`)
	reDate       = regexp.MustCompile(`(?i)\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{1,2}\s(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)(?:\s\d{4})?)\b`)
)

// ExtractEntities runs every recognizer over text and resolves overlapping
// spans in favor of the longest match. Person names come from the staff
// directory lexicon; surname-only mentions are ignored.
func ExtractEntities(text string) []model.Entity {
	var ents []model.Entity
	ents = appendMatches(ents, text, reCourseCode, model.EntityCourseCode)
	ents = appendMatches(ents, text, reEmail, model.EntityEmail)
	ents = appendMatches(ents, text, rePhone, model.EntityPhone)
	ents = appendMatches(ents, text, reAmount, model.EntityAmount)
	ents = appendMatches(ents, text, reDate, model.EntityDate)
	ents = append(ents, staffNames(text)...)
	return resolveOverlaps(ents)
}

func appendMatches(ents []model.Entity, text string, re *regexp.Regexp, kind model.EntityKind) []model.Entity {
	for _, loc := range re.FindAllStringIndex(text, -1) {
		ents = append(ents, model.Entity{
			Kind:  kind,
			Value: text[loc[0]:loc[1]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return ents
}

func staffNames(text string) []model.Entity {
	lower := strings.ToLower(text)
	var ents []model.Entity
	for _, name := range lexicon.StaffNames {
		needle := strings.ToLower(name)
		from := 0
		for {
			i := strings.Index(lower[from:], needle)
			if i < 0 {
				break
			}
			start := from + i
			ents = append(ents, model.Entity{
				Kind:  model.EntityPersonName,
				Value: name,
				Start: start,
				End:   start + len(needle),
			})
			from = start + len(needle)
		}
	}
	return ents
}

// resolveOverlaps keeps the longest span when two entities cover the same
// text, preferring the earlier one on equal length.
func resolveOverlaps(ents []model.Entity) []model.Entity {
	sort.Slice(ents, func(i, j int) bool {
		li, lj := ents[i].End-ents[i].Start, ents[j].End-ents[j].Start
		if li != lj {
			return li > lj
		}
		return ents[i].Start < ents[j].Start
	})
	var kept []model.Entity
	for _, e := range ents {
		clash := false
		for _, k := range kept {
			if e.Start < k.End && k.Start < e.End {
				clash = true
				break
			}
		}
		if !clash {
			kept = append(kept, e)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}
