package feedback

import (
	"context"

	"github.com/faix-chatbot/engine/internal/engine/lexicon"
	"github.com/faix-chatbot/engine/internal/engine/model"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

// AvoidanceFilter rejects candidate responses that are near-duplicates of
// answers users already rated bad for the same intent. The filter fails
// open: a store error must never block a response.
type AvoidanceFilter struct {
	store     model.FeedbackStore
	threshold float64
}

func NewAvoidanceFilter(store model.FeedbackStore, threshold float64) *AvoidanceFilter {
	return &AvoidanceFilter{store: store, threshold: threshold}
}

// ShouldAvoid reports whether the candidate overlaps a recent bad-rated
// answer at or above the threshold.
func (f *AvoidanceFilter) ShouldAvoid(ctx context.Context, intent model.Intent, text string) bool {
	recs, err := f.store.RecentBad(ctx, intent)
	if err != nil {
		logx.Warn().Err(err).Str("intent", string(intent)).Msg("feedback store unavailable, avoidance filter disabled for this request")
		return false
	}
	if len(recs) == 0 {
		return false
	}

	candidate := tokenSet(text)
	for _, rec := range recs {
		sim := overlap(candidate, tokenSet(rec.ResponseText))
		if sim >= f.threshold {
			logx.Info().
				Str("intent", string(intent)).
				Str("message_id", rec.MessageID).
				Float64("similarity", sim).
				Msg("candidate too close to a bad-rated response, rejecting")
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

// overlap is Jaccard similarity over token sets.
func overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
