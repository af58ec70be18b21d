package model

import (
	"fmt"
	"time"
)

// ================ Config ================

// ClassifierConfig controls the zero-shot stage and the result cache.
type ClassifierConfig struct {
	Model       string  `envconfig:"NLU_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"NLU_MAX_TOKENS" default:"512"`
	Temperature float32 `envconfig:"NLU_TEMPERATURE" default:"0.1"`
	Timeout     string  `envconfig:"NLU_TIMEOUT" default:"5s"`
	CacheSize   int     `envconfig:"NLU_CACHE_SIZE" default:"1024"`
}

// GenerationConfig controls the response chat model.
type GenerationConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

// RetrieverConfig controls context retrieval. An empty EmbeddingURL disables
// the semantic path entirely; the engine then runs keyword-only.
type RetrieverConfig struct {
	TopK             int     `envconfig:"RETRIEVER_TOP_K" default:"3"`
	WideTopK         int     `envconfig:"RETRIEVER_WIDE_TOP_K" default:"5"`
	MinScore         float64 `envconfig:"RETRIEVER_MIN_SCORE" default:"0.15"`
	EmbeddingURL     string  `envconfig:"EMBEDDING_BASE_URL"`
	EmbeddingModel   string  `envconfig:"EMBEDDING_MODEL" default:"nomic-embed-text"`
	EmbeddingTimeout string  `envconfig:"EMBEDDING_TIMEOUT" default:"5s"`
}

// ValidatorConfig controls response validation thresholds.
type ValidatorConfig struct {
	MinChars       int `envconfig:"VALIDATOR_MIN_CHARS" default:"20"`
	StrictMinChars int `envconfig:"VALIDATOR_STRICT_MIN_CHARS" default:"40"`
}

// FeedbackConfig controls the avoidance filter and the feedback window.
type FeedbackConfig struct {
	SimilarityThreshold float64 `envconfig:"FEEDBACK_SIMILARITY_THRESHOLD" default:"0.7"`
	WindowSize          int     `envconfig:"FEEDBACK_WINDOW_SIZE" default:"50"`
	TTL                 string  `envconfig:"FEEDBACK_TTL" default:"24h"`
}

// ConversationConfig controls history persistence.
type ConversationConfig struct {
	TTL      string `envconfig:"CONVERSATION_TTL" default:"15m"`
	MaxTurns int    `envconfig:"CONVERSATION_MAX_TURNS" default:"10"`
}

// AgentConfig carries per-agent budgets. The staff agent gets the shortest
// generation budget: its backing retrieval (name lookup) is the slowest, so
// less wall-clock remains for the model call.
type AgentConfig struct {
	FAQTimeout      string `envconfig:"AGENT_FAQ_TIMEOUT" default:"20s"`
	ScheduleTimeout string `envconfig:"AGENT_SCHEDULE_TIMEOUT" default:"15s"`
	StaffTimeout    string `envconfig:"AGENT_STAFF_TIMEOUT" default:"10s"`
	CatchallTimeout string `envconfig:"AGENT_CATCHALL_TIMEOUT" default:"15s"`

	FAQMaxTokens      int `envconfig:"AGENT_FAQ_MAX_TOKENS" default:"1024"`
	ScheduleMaxTokens int `envconfig:"AGENT_SCHEDULE_MAX_TOKENS" default:"512"`
	StaffMaxTokens    int `envconfig:"AGENT_STAFF_MAX_TOKENS" default:"512"`
	CatchallMaxTokens int `envconfig:"AGENT_CATCHALL_MAX_TOKENS" default:"256"`
}

func (c AgentConfig) parseTimeouts() (map[AgentID]time.Duration, error) {
	out := make(map[AgentID]time.Duration, 4)
	for id, raw := range map[AgentID]string{
		AgentFAQ:      c.FAQTimeout,
		AgentSchedule: c.ScheduleTimeout,
		AgentStaff:    c.StaffTimeout,
		AgentCatchall: c.CatchallTimeout,
	} {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("agent %s timeout %q: %w", id, raw, err)
		}
		out[id] = d
	}
	return out, nil
}
