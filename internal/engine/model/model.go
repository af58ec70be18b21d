package model

import "time"

// ClassificationMethod records which stage of the classifier produced an
// IntentResult.
type ClassificationMethod string

const (
	MethodPriorityPattern ClassificationMethod = "priority_pattern"
	MethodZeroShot        ClassificationMethod = "zero_shot"
	MethodKeywordFallback ClassificationMethod = "keyword_fallback"
)

// KeywordConfidenceCap bounds keyword-fallback confidence so fallback results
// never enter the high-confidence band reserved for the other two methods.
const KeywordConfidenceCap = 0.79

// Utterance is one inbound user turn. Immutable once created.
type Utterance struct {
	Text      string
	Language  string
	SessionID string
	AgentHint string
}

// IntentResult is the classifier's output for one utterance.
type IntentResult struct {
	Intent     Intent
	Confidence float64
	Method     ClassificationMethod
}

// Band returns the routing band for the result's confidence.
func (r IntentResult) Band() ConfidenceBand { return Band(r.Confidence) }

// EntityKind enumerates the deterministic recognizers.
type EntityKind string

const (
	EntityCourseCode EntityKind = "course_code"
	EntityPersonName EntityKind = "person_name"
	EntityDate       EntityKind = "date"
	EntityEmail      EntityKind = "email"
	EntityPhone      EntityKind = "phone"
	EntityAmount     EntityKind = "amount"
)

// Entity is a literal span extracted from the utterance. Recognizers never
// invent values not present in the text.
type Entity struct {
	Kind  EntityKind
	Value string
	Start int
	End   int
}

// RetrievalMethod tags how a context document was found. Scores from
// different methods are not on the same scale and must never be compared.
type RetrievalMethod string

const (
	RetrievalSemantic RetrievalMethod = "semantic"
	RetrievalKeyword  RetrievalMethod = "keyword"
)

// ContextDocument is one retrieved supporting document. Callers rely on
// retrieval output being sorted by descending Score.
type ContextDocument struct {
	SourceID string
	Text     string
	Score    float64
	Method   RetrievalMethod
}

// ResponseSource tags which fallback-chain stage produced the final text.
type ResponseSource string

const (
	SourceLLM           ResponseSource = "llm"
	SourceKnowledgeBase ResponseSource = "knowledge_base"
	SourceRuleBased     ResponseSource = "rule_based"
)

// GeneratedResponse is the engine's final answer. MessageID is assigned once
// and is the join key for feedback.
type GeneratedResponse struct {
	Text      string
	Source    ResponseSource
	MessageID string
}

// Rating is a user's verdict on a response.
type Rating string

const (
	RatingGood Rating = "good"
	RatingBad  Rating = "bad"
)

// FeedbackRecord is the only entity that outlives a request. Append-only.
type FeedbackRecord struct {
	MessageID    string    `json:"message_id"`
	Intent       Intent    `json:"intent"`
	ResponseText string    `json:"response_text"`
	Rating       Rating    `json:"rating"`
	SessionID    string    `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Role tags a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one entry of the caller-owned history. The engine never
// mutates the sequence it receives.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// QueryInput is the inbound request from the web-layer collaborator.
type QueryInput struct {
	Message   string             `json:"message"`
	SessionID string             `json:"session_id"`
	AgentID   string             `json:"agent_id,omitempty"`
	History   []ConversationTurn `json:"history,omitempty"`
}

// QueryOutput is the engine's reply to the caller.
type QueryOutput struct {
	Response   string         `json:"response"`
	Intent     Intent         `json:"intent"`
	Confidence float64        `json:"confidence"`
	AgentID    AgentID        `json:"agent_id"`
	MessageID  string         `json:"message_id"`
	Sources    []string       `json:"sources,omitempty"`
	Language   string         `json:"language,omitempty"`
	Origin     ResponseSource `json:"origin,omitempty"`
}
