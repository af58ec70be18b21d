// Package engine orchestrates one query's path through the pipeline:
// language detection, intent classification, agent routing, context
// retrieval, prompt assembly, generation and the validator fallback chain,
// with the feedback avoidance filter between chain and caller.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/faix-chatbot/engine/internal/engine/classifier"
	"github.com/faix-chatbot/engine/internal/engine/conversations"
	"github.com/faix-chatbot/engine/internal/engine/feedback"
	"github.com/faix-chatbot/engine/internal/engine/langdetect"
	"github.com/faix-chatbot/engine/internal/engine/model"
	"github.com/faix-chatbot/engine/internal/engine/prompt"
	"github.com/faix-chatbot/engine/internal/engine/retriever"
	"github.com/faix-chatbot/engine/internal/engine/router"
	"github.com/faix-chatbot/engine/internal/engine/validator"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

// deliveredCacheSize bounds the message-id lookup used to resolve feedback.
const deliveredCacheSize = 4096

// delivered is what feedback resolution needs to know about a past answer.
type delivered struct {
	intent    model.Intent
	text      string
	sessionID string
}

type Engine struct {
	classifier *classifier.Classifier
	registry   *model.AgentRegistry
	retriever  *retriever.Retriever
	assembler  *prompt.Assembler
	chain      *validator.Chain
	filter     *feedback.AvoidanceFilter
	feedback   model.FeedbackStore
	conv       *conversations.Manager

	recent *lru.Cache[string, delivered]
}

// Deps carries the engine's collaborators, already constructed.
type Deps struct {
	Classifier *classifier.Classifier
	Registry   *model.AgentRegistry
	Retriever  *retriever.Retriever
	Assembler  *prompt.Assembler
	Chain      *validator.Chain
	Filter     *feedback.AvoidanceFilter
	Feedback   model.FeedbackStore
	Conv       *conversations.Manager
}

func New(d Deps) (*Engine, error) {
	for name, dep := range map[string]any{
		"classifier": d.Classifier, "registry": d.Registry, "retriever": d.Retriever,
		"assembler": d.Assembler, "chain": d.Chain, "filter": d.Filter,
		"feedback": d.Feedback, "conv": d.Conv,
	} {
		if dep == nil {
			return nil, fmt.Errorf("engine: missing dependency %s", name)
		}
	}
	recent, err := lru.New[string, delivered](deliveredCacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{
		classifier: d.Classifier,
		registry:   d.Registry,
		retriever:  d.Retriever,
		assembler:  d.Assembler,
		chain:      d.Chain,
		filter:     d.Filter,
		feedback:   d.Feedback,
		conv:       d.Conv,
		recent:     recent,
	}, nil
}

// Process handles one user query end to end. The only error it returns is an
// invalid agent hint; every internal failure resolves to a deliverable
// answer, in the worst case the fixed failure text.
func (e *Engine) Process(ctx context.Context, in model.QueryInput) (*model.QueryOutput, error) {
	text := strings.TrimSpace(in.Message)
	sessionLang := e.conv.SessionLanguage(ctx, in.SessionID)
	lang := langdetect.Detect(text, sessionLang)

	if text == "" {
		return e.failedOutput(lang), nil
	}

	ents := langdetect.ExtractEntities(text)
	intentRes := e.classifier.Classify(ctx, model.Utterance{
		Text:      text,
		Language:  lang,
		SessionID: in.SessionID,
		AgentHint: in.AgentID,
	})

	agent, err := router.Route(e.registry, intentRes, text, in.AgentID)
	if err != nil {
		return nil, err
	}

	docs := e.retriever.Retrieve(ctx, text, ents, agent.DocumentScopes, intentRes.Band())

	history, err := e.history(ctx, in)
	if err != nil {
		logx.Warn().Err(err).Str("session", in.SessionID).Msg("history unavailable, answering without it")
		history = nil
	}

	msgs, err := e.assembler.Assemble(ctx, agent.ID, lang, docs, history, text)
	if err != nil {
		logx.Error().Err(err).Str("agent", string(agent.ID)).Msg("prompt assembly failed")
		return e.failedOutput(lang), nil
	}

	cand := e.answer(ctx, validator.Request{
		Agent:    *agent,
		Intent:   intentRes,
		Entities: ents,
		Language: lang,
		Messages: msgs,
	})

	messageID := uuid.NewString()
	e.recent.Add(messageID, delivered{intent: intentRes.Intent, text: cand.Text, sessionID: in.SessionID})

	e.persistTurn(ctx, in.SessionID, text, cand.Text, lang)

	out := &model.QueryOutput{
		Response:   cand.Text,
		Intent:     intentRes.Intent,
		Confidence: intentRes.Confidence,
		AgentID:    agent.ID,
		MessageID:  messageID,
		Language:   lang,
		Origin:     cand.Source,
	}
	for _, d := range docs {
		out.Sources = append(out.Sources, d.SourceID)
	}

	logx.Info().
		Str("session", in.SessionID).
		Str("intent", string(intentRes.Intent)).
		Float64("confidence", intentRes.Confidence).
		Str("method", string(intentRes.Method)).
		Str("agent", string(agent.ID)).
		Str("origin", string(cand.Source)).
		Str("message_id", messageID).
		Msg("query processed")
	return out, nil
}

// answer walks the fallback chain, re-entering it whenever the avoidance
// filter rejects a candidate. The terminal failure text bypasses the filter.
func (e *Engine) answer(ctx context.Context, req validator.Request) validator.Candidate {
	run := e.chain.Start(req)
	for {
		cand, err := run.Next(ctx)
		if cand.Final {
			if err != nil {
				logx.Warn().Str("intent", string(req.Intent.Intent)).Msg("delivering failure text")
			}
			return cand
		}
		if e.filter.ShouldAvoid(ctx, req.Intent.Intent, cand.Text) {
			continue
		}
		return cand
	}
}

// RecordFeedback stores the user's verdict on a previously delivered answer.
// The message id is the join key; an id the engine no longer knows is a
// caller error.
func (e *Engine) RecordFeedback(ctx context.Context, messageID string, rating model.Rating) error {
	if rating != model.RatingGood && rating != model.RatingBad {
		return fmt.Errorf("invalid rating %q", rating)
	}
	d, ok := e.recent.Get(messageID)
	if !ok {
		return fmt.Errorf("unknown message id %q", messageID)
	}
	return e.feedback.Record(ctx, model.FeedbackRecord{
		MessageID:    messageID,
		Intent:       d.intent,
		ResponseText: d.text,
		Rating:       rating,
		SessionID:    d.sessionID,
		Timestamp:    time.Now().UTC(),
	})
}

// Reset clears a session's stored state.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	return e.conv.Reset(ctx, sessionID)
}

// history prefers the caller-supplied transcript; without one it falls back
// to the stored session history.
func (e *Engine) history(ctx context.Context, in model.QueryInput) ([]*schema.Message, error) {
	if len(in.History) > 0 {
		msgs := make([]*schema.Message, 0, len(in.History))
		for _, turn := range in.History {
			switch turn.Role {
			case model.RoleUser:
				msgs = append(msgs, schema.UserMessage(turn.Content))
			case model.RoleAssistant:
				msgs = append(msgs, schema.AssistantMessage(turn.Content, nil))
			}
		}
		return msgs, nil
	}
	return e.conv.RecentHistory(ctx, in.SessionID)
}

func (e *Engine) persistTurn(ctx context.Context, sessionID, userText, assistantText, lang string) {
	if sessionID == "" {
		return
	}
	if err := e.conv.SaveTurn(ctx, sessionID, userText, assistantText); err != nil {
		logx.Warn().Err(err).Str("session", sessionID).Msg("failed to persist turn")
	}
	e.conv.RememberLanguage(ctx, sessionID, lang)
}

func (e *Engine) failedOutput(lang string) *model.QueryOutput {
	return &model.QueryOutput{
		Response:   validator.FailureText(lang),
		Intent:     model.IntentUnknown,
		Confidence: 0,
		AgentID:    model.AgentCatchall,
		MessageID:  uuid.NewString(),
		Language:   lang,
		Origin:     model.SourceRuleBased,
	}
}
