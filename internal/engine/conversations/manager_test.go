package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faix-chatbot/engine/internal/engine/model"
	"github.com/faix-chatbot/engine/internal/engine/repo"
)

func newManager(t *testing.T, maxTurns int) *Manager {
	t.Helper()
	m, err := NewManager(repo.NewMemoryConversationRepository(), model.ConversationConfig{TTL: "15m", MaxTurns: maxTurns})
	require.NoError(t, err)
	return m
}

func TestSaveTurnAndRecentHistory(t *testing.T) {
	m := newManager(t, 10)
	ctx := context.Background()

	require.NoError(t, m.SaveTurn(ctx, "s1", "hello", "Hi! How can I help?"))

	msgs, err := m.RecentHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "Hi! How can I help?", msgs[1].Content)
}

func TestRecentHistoryBounded(t *testing.T) {
	m := newManager(t, 4)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.SaveTurn(ctx, "s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}

	msgs, err := m.RecentHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "q3", msgs[0].Content)
	assert.Equal(t, "a4", msgs[3].Content)
}

func TestSessionLanguageRoundTrip(t *testing.T) {
	m := newManager(t, 10)
	ctx := context.Background()

	assert.Empty(t, m.SessionLanguage(ctx, "s1"))
	m.RememberLanguage(ctx, "s1", "ms")
	assert.Equal(t, "ms", m.SessionLanguage(ctx, "s1"))
}

func TestReset(t *testing.T) {
	m := newManager(t, 10)
	ctx := context.Background()

	require.NoError(t, m.SaveTurn(ctx, "s1", "hello", "hi"))
	m.RememberLanguage(ctx, "s1", "en")
	require.NoError(t, m.Reset(ctx, "s1"))

	msgs, err := m.RecentHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Empty(t, m.SessionLanguage(ctx, "s1"))
}

func TestBadTTLRejected(t *testing.T) {
	_, err := NewManager(repo.NewMemoryConversationRepository(), model.ConversationConfig{TTL: "soon", MaxTurns: 10})
	assert.Error(t, err)
}
