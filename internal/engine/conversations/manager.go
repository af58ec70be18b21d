// Package conversations manages per-session dialog history on top of the
// conversation repository: bounded recall windows and turn persistence.
package conversations

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/faix-chatbot/engine/internal/engine/model"
)

type Manager struct {
	repo     model.ConversationRepository
	maxTurns int
}

func NewManager(repo model.ConversationRepository, cfg model.ConversationConfig) (*Manager, error) {
	if _, err := time.ParseDuration(cfg.TTL); err != nil {
		return nil, fmt.Errorf("conversation ttl %q: %w", cfg.TTL, err)
	}
	return &Manager{repo: repo, maxTurns: cfg.MaxTurns}, nil
}

// RecentHistory returns the newest maxTurns messages for the session, oldest
// first. Empty or nil messages are dropped.
func (m *Manager) RecentHistory(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	history, err := m.repo.LoadHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	msgs := make([]*schema.Message, 0, len(history.Messages))
	for _, msg := range history.Messages {
		if msg == nil || msg.Content == "" {
			continue
		}
		msgs = append(msgs, msg)
	}
	return trimTail(msgs, m.maxTurns), nil
}

// SaveTurn persists one completed exchange.
func (m *Manager) SaveTurn(ctx context.Context, sessionID, userText, assistantText string) error {
	if err := m.repo.AddMessage(ctx, sessionID, schema.UserMessage(userText)); err != nil {
		return err
	}
	return m.repo.AddMessage(ctx, sessionID, schema.AssistantMessage(assistantText, nil))
}

// SessionLanguage returns the stored language tie-break, "" when unset.
func (m *Manager) SessionLanguage(ctx context.Context, sessionID string) string {
	lang, err := m.repo.Language(ctx, sessionID)
	if err != nil {
		return ""
	}
	return lang
}

// RememberLanguage stores the detected language for later tie-breaks. Best
// effort; detection recomputes every turn anyway.
func (m *Manager) RememberLanguage(ctx context.Context, sessionID, language string) {
	_ = m.repo.SetLanguage(ctx, sessionID, language)
}

// Reset clears all state for a session.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	return m.repo.ClearHistory(ctx, sessionID)
}

func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
