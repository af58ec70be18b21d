// Package classifier resolves an utterance to one of the configured intents.
// Resolution is layered: priority phrase patterns first, then the zero-shot
// label scorer, then keyword overlap when the scorer is unavailable. The
// classifier never returns an error; any failure degrades to a lower layer
// and ultimately to the unknown intent.
package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/faix-chatbot/engine/internal/engine/langdetect"
	"github.com/faix-chatbot/engine/internal/engine/lexicon"
	"github.com/faix-chatbot/engine/internal/engine/model"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

// PriorityConfidence is the fixed score assigned by phrase-pattern matches.
const PriorityConfidence = 0.9

// LabelScorer scores text against candidate intent labels. Implementations
// may call out to a model; errors mean "scorer unavailable", never "no
// intent".
type LabelScorer interface {
	Score(ctx context.Context, text string, labels []model.Intent) (model.Intent, float64, error)
}

type Classifier struct {
	scorer  LabelScorer
	timeout time.Duration
	cache   *lru.Cache[string, model.IntentResult]
}

// New builds a classifier. scorer may be nil, in which case zero-shot is
// skipped and keyword fallback carries the load.
func New(cfg model.ClassifierConfig, scorer LabelScorer) (*Classifier, error) {
	if err := lexicon.Validate(); err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("classifier timeout %q: %w", cfg.Timeout, err)
	}
	cache, err := lru.New[string, model.IntentResult](cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Classifier{scorer: scorer, timeout: timeout, cache: cache}, nil
}

// Classify resolves the utterance to an intent with a confidence and the
// method that produced it. An empty utterance short-circuits to unknown with
// confidence zero and no model call.
func (c *Classifier) Classify(ctx context.Context, utt model.Utterance) model.IntentResult {
	text := strings.TrimSpace(utt.Text)
	if text == "" {
		return model.IntentResult{Intent: model.IntentUnknown, Confidence: 0, Method: model.MethodKeywordFallback}
	}
	// Student short forms ("wat r the fees", "yuran brp") defeat exact-token
	// matching; expand them before every layer sees the text.
	lower := lexicon.ExpandShortForms(strings.ToLower(text), utt.Language)

	if intent, ok := matchPriority(lower); ok {
		return model.IntentResult{Intent: intent, Confidence: PriorityConfidence, Method: model.MethodPriorityPattern}
	}

	key := utt.Language + "\x00" + lower
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}

	res, cacheable := c.classifyUncached(ctx, lower, utt)
	if cacheable {
		c.cache.Add(key, res)
	}
	return res
}

// classifyUncached reports the result and whether it may be cached. Results
// produced while the scorer was erroring are degraded, not definitive, and
// must not outlive the outage in the cache.
func (c *Classifier) classifyUncached(ctx context.Context, lower string, utt model.Utterance) (model.IntentResult, bool) {
	if c.scorer != nil {
		sctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		intent, conf, err := c.scorer.Score(sctx, lower, lexicon.Intents(utt.Language))
		if err == nil && intent != model.IntentUnknown && conf > 0 {
			return correct(lower, model.IntentResult{Intent: intent, Confidence: conf, Method: model.MethodZeroShot}), true
		}
		if err != nil {
			logx.Warn().Err(err).Str("component", "classifier").Msg("zero-shot scorer unavailable, falling back to keywords")
			res, _ := keywordResult(lower, utt.Language)
			return res, false
		}
	}

	return keywordResult(lower, utt.Language)
}

func keywordResult(lower, lang string) (model.IntentResult, bool) {
	if intent, conf, ok := keywordMatch(lower, lang); ok {
		return correct(lower, model.IntentResult{Intent: intent, Confidence: conf, Method: model.MethodKeywordFallback}), true
	}
	return model.IntentResult{Intent: model.IntentUnknown, Confidence: 0, Method: model.MethodKeywordFallback}, true
}

// matchPriority checks the ordered phrase patterns. Multi-word phrases match
// as substrings; single words only on token boundaries.
func matchPriority(lower string) (model.Intent, bool) {
	var tokens map[string]struct{}
	for _, pp := range lexicon.PriorityPatterns() {
		for _, phrase := range pp.Phrases {
			if strings.Contains(phrase, " ") {
				if strings.Contains(lower, phrase) {
					return pp.Intent, true
				}
				continue
			}
			if tokens == nil {
				tokens = tokenSet(lower)
			}
			if _, ok := tokens[phrase]; ok {
				return pp.Intent, true
			}
		}
	}
	return model.IntentUnknown, false
}

// keywordMatch scores every intent by keyword overlap in the utterance's
// language and returns the best one. The denominator is clamped to 5 so long
// keyword lists do not dilute a strong match, and the result is capped below
// the high-confidence band so keyword hits can never claim direct routing.
func keywordMatch(lower, lang string) (model.Intent, float64, bool) {
	tokens := tokenSet(lower)
	best := model.IntentUnknown
	bestScore := 0.0
	for _, intent := range lexicon.Intents(lang) {
		kws := lexicon.Keywords(lang, intent)
		matched := 0
		for _, kw := range kws {
			if keywordHit(lower, tokens, kw) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		denom := len(kws)
		if denom > 5 {
			denom = 5
		}
		if denom < 1 {
			denom = 1
		}
		score := float64(matched) / float64(denom)
		if score > 1 {
			score = 1
		}
		score *= model.KeywordConfidenceCap
		if score > bestScore {
			bestScore = score
			best = intent
		}
	}
	return best, bestScore, best != model.IntentUnknown
}

func keywordHit(lower string, tokens map[string]struct{}, kw string) bool {
	if strings.Contains(kw, " ") || !isASCII(kw) {
		return strings.Contains(lower, kw)
	}
	_, ok := tokens[kw]
	return ok
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func tokenSet(lower string) map[string]struct{} {
	tokens := lexicon.Tokenize(lower)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// correctionRule rewrites a predicted intent when the utterance carries
// strong signals the scorer is known to confuse.
type correctionRule struct {
	tokens []string
	from   map[model.Intent]struct{}
	to     model.Intent
}

var correctionRules = []correctionRule{
	{
		tokens: []string{"fee", "fees", "tuition", "yuran", "学费"},
		from: map[model.Intent]struct{}{
			model.IntentRegistration: {}, model.IntentAdmission: {}, model.IntentProgramInfo: {},
		},
		to: model.IntentFees,
	},
	{
		tokens: []string{"contact", "email", "phone", "hubungi", "emel", "联系"},
		from: map[model.Intent]struct{}{
			model.IntentAboutFAIX: {},
		},
		to: model.IntentStaffContact,
	},
}

// correct applies the rewrite rules, then narrows program_info to course_info
// when a concrete course code is present. Confidence is preserved.
func correct(lower string, res model.IntentResult) model.IntentResult {
	tokens := tokenSet(lower)
	for _, rule := range correctionRules {
		if _, ok := rule.from[res.Intent]; !ok {
			continue
		}
		for _, tok := range rule.tokens {
			if keywordHit(lower, tokens, tok) {
				res.Intent = rule.to
				return res
			}
		}
	}
	if res.Intent == model.IntentProgramInfo {
		if ents := langdetect.ExtractEntities(lower); hasCourseCode(ents) {
			res.Intent = model.IntentCourseInfo
		}
	}
	return res
}

func hasCourseCode(ents []model.Entity) bool {
	for _, e := range ents {
		if e.Kind == model.EntityCourseCode {
			return true
		}
	}
	return false
}
