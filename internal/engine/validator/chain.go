package validator

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"

	errx "github.com/faix-chatbot/engine/internal/core/error"
	"github.com/faix-chatbot/engine/internal/engine/model"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

// State names the chain's position. The chain only moves forward; a rejected
// candidate advances it to the next source, never back.
type State string

const (
	StateGenerating        State = "generating"
	StateValidating        State = "validating"
	StateRetryingKB        State = "retrying_kb"
	StateRetryingRuleBased State = "retrying_rule_based"
	StateSucceeded         State = "succeeded"
	StateFailed            State = "failed"
)

// Generator produces the model-backed candidate.
type Generator interface {
	Generate(ctx context.Context, agent model.AgentDescriptor, msgs []*schema.Message) (string, error)
}

// KnowledgeBase is the direct-lookup fallback source.
type KnowledgeBase interface {
	Lookup(intent model.Intent, ents []model.Entity) (string, bool)
}

// Chain wires the three response sources behind one validator.
type Chain struct {
	gen       Generator
	kb        KnowledgeBase
	validator *Validator
}

func NewChain(gen Generator, kb KnowledgeBase, v *Validator) *Chain {
	return &Chain{gen: gen, kb: kb, validator: v}
}

// Request carries everything a run needs to produce candidates.
type Request struct {
	Agent    model.AgentDescriptor
	Intent   model.IntentResult
	Entities []model.Entity
	Language string
	Messages []*schema.Message
}

// Candidate is one validated answer. Final marks the exhaustion text, which
// callers must deliver as-is without further filtering.
type Candidate struct {
	Text   string
	Source model.ResponseSource
	Final  bool
}

// Run is a resumable pass through the chain. Each Next call yields the next
// candidate that passes validation; callers that reject a candidate (the
// avoidance filter does) simply call Next again.
type Run struct {
	chain *Chain
	req   Request
	state State

	triedLLM  bool
	triedKB   bool
	triedRule bool
}

func (c *Chain) Start(req Request) *Run {
	return &Run{chain: c, req: req, state: StateGenerating}
}

// State reports the run's current position.
func (r *Run) State() State { return r.state }

// Next produces the next validated candidate. After every source has been
// tried it returns the fixed failure text together with
// ErrAllSourcesExhausted; the candidate is still deliverable.
func (r *Run) Next(ctx context.Context) (Candidate, error) {
	if !r.triedLLM {
		r.triedLLM = true
		r.state = StateGenerating
		if cand, ok := r.tryLLM(ctx); ok {
			r.state = StateSucceeded
			return cand, nil
		}
	}
	if !r.triedKB {
		r.triedKB = true
		r.state = StateRetryingKB
		if cand, ok := r.tryKB(); ok {
			r.state = StateSucceeded
			return cand, nil
		}
	}
	if !r.triedRule {
		r.triedRule = true
		r.state = StateRetryingRuleBased
		if cand, ok := r.tryRule(); ok {
			r.state = StateSucceeded
			return cand, nil
		}
	}

	r.state = StateFailed
	logx.Warn().
		Str("agent", string(r.req.Agent.ID)).
		Str("intent", string(r.req.Intent.Intent)).
		Msg("all response sources exhausted")
	return Candidate{
		Text:   FailureText(r.req.Language),
		Source: model.SourceRuleBased,
		Final:  true,
	}, errx.ErrAllSourcesExhausted
}

func (r *Run) tryLLM(ctx context.Context) (Candidate, bool) {
	text, err := r.chain.gen.Generate(ctx, r.req.Agent, r.req.Messages)
	if err != nil {
		if errors.Is(err, errx.ErrGenerationTimeout) {
			logx.Warn().Str("agent", string(r.req.Agent.ID)).Msg("generation timed out, moving to knowledge base")
		} else {
			logx.Warn().Err(err).Str("agent", string(r.req.Agent.ID)).Msg("generation failed, moving to knowledge base")
		}
		return Candidate{}, false
	}
	return r.validate(text, model.SourceLLM)
}

func (r *Run) tryKB() (Candidate, bool) {
	text, ok := r.chain.kb.Lookup(r.req.Intent.Intent, r.req.Entities)
	if !ok {
		return Candidate{}, false
	}
	return r.validate(text, model.SourceKnowledgeBase)
}

func (r *Run) tryRule() (Candidate, bool) {
	text, ok := RuleTemplate(r.req.Intent.Intent, r.req.Language)
	if !ok {
		return Candidate{}, false
	}
	return r.validate(text, model.SourceRuleBased)
}

func (r *Run) validate(text string, source model.ResponseSource) (Candidate, bool) {
	r.state = StateValidating
	if err := r.chain.validator.Validate(text, r.req.Intent.Intent, r.req.Intent.Band()); err != nil {
		logx.Debug().
			Err(err).
			Str("source", string(source)).
			Str("intent", string(r.req.Intent.Intent)).
			Msg("candidate rejected by validator")
		return Candidate{}, false
	}
	return Candidate{Text: text, Source: source}, true
}
