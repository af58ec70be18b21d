package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/faix-chatbot/engine/internal/engine/model"
)

// MemoryConversationRepository keeps session state in-process. Used when
// Redis is not configured and in tests.
type MemoryConversationRepository struct {
	mu        sync.RWMutex
	messages  map[string][]*schema.Message
	languages map[string]string
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		messages:  make(map[string][]*schema.Message),
		languages: make(map[string]string),
	}
}

func (r *MemoryConversationRepository) AddMessage(_ context.Context, sessionID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[sessionID] = append(r.messages[sessionID], message)
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(_ context.Context, sessionID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := make([]*schema.Message, len(r.messages[sessionID]))
	copy(msgs, r.messages[sessionID])
	return &model.ConversationHistory{SessionID: sessionID, Messages: msgs}, nil
}

func (r *MemoryConversationRepository) ClearHistory(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, sessionID)
	delete(r.languages, sessionID)
	return nil
}

func (r *MemoryConversationRepository) SetLanguage(_ context.Context, sessionID, language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.languages[sessionID] = language
	return nil
}

func (r *MemoryConversationRepository) Language(_ context.Context, sessionID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.languages[sessionID], nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
