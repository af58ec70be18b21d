// Package router maps a classified utterance to the agent that handles it.
// Routing is a pure function over the registry: no I/O, no state.
package router

import (
	"strings"

	errx "github.com/faix-chatbot/engine/internal/core/error"
	"github.com/faix-chatbot/engine/internal/engine/lexicon"
	"github.com/faix-chatbot/engine/internal/engine/model"
)

// Route picks the agent for the classified utterance.
//
// An explicit agent hint overrides everything; an unknown hint is the one
// routing error reported to the caller. Otherwise very-low confidence goes
// to the catch-all, and the first agent in priority order that claims the
// intent without tripping its excluded keywords wins. The exclusion step is
// what keeps "when was FAIX established" away from the staff agent even
// though the staff agent claims the about_faix intent.
func Route(reg *model.AgentRegistry, res model.IntentResult, utterance, hint string) (*model.AgentDescriptor, error) {
	if hint != "" {
		agent := reg.Get(model.AgentID(hint))
		if agent == nil {
			return nil, errx.InvalidHint(hint)
		}
		return agent, nil
	}

	if res.Band() == model.BandVeryLow {
		return reg.Catchall(), nil
	}

	lower := strings.ToLower(utterance)
	tokens := tokenSet(lower)
	for _, agent := range reg.All() {
		if !agent.Allows(res.Intent) {
			continue
		}
		if excluded(lower, tokens, agent.ExcludedKeywords) {
			continue
		}
		return agent, nil
	}
	return reg.Catchall(), nil
}

func excluded(lower string, tokens map[string]struct{}, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if _, ok := tokens[kw]; ok {
			return true
		}
	}
	return false
}

func tokenSet(lower string) map[string]struct{} {
	tokens := lexicon.Tokenize(lower)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
