package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ConversationRepository persists per-session conversation state. The engine
// writes each turn and reads a bounded history window; durable storage is the
// collaborator's concern.
type ConversationRepository interface {
	// AddMessage appends a message to the session's history.
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error

	// LoadHistory retrieves the stored history for a session.
	LoadHistory(ctx context.Context, sessionID string) (*ConversationHistory, error)

	// ClearHistory removes all history for a session.
	ClearHistory(ctx context.Context, sessionID string) error

	// SetLanguage stores the most recently detected language for the session.
	SetLanguage(ctx context.Context, sessionID, language string) error

	// Language returns the previously detected language, or "" when none is
	// stored. Used only as a tie-break by the language detector.
	Language(ctx context.Context, sessionID string) (string, error)
}

// ConversationHistory represents loaded conversation data.
type ConversationHistory struct {
	SessionID string
	Messages  []*schema.Message
}

// FeedbackStore records per-response user feedback and serves the avoidance
// filter's bounded recent window of bad-rated responses.
type FeedbackStore interface {
	// Record appends one feedback record. Append-only; records are never
	// updated or rolled back.
	Record(ctx context.Context, rec FeedbackRecord) error

	// RecentBad returns the bounded window of bad-rated records for the
	// intent, most recent last.
	RecentBad(ctx context.Context, intent Intent) ([]FeedbackRecord, error)
}
