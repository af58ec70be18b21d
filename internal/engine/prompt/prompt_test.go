package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faix-chatbot/engine/internal/engine/model"
)

func TestAssembleOrderAndContent(t *testing.T) {
	a := NewAssembler(0)
	docs := []model.ContextDocument{
		{SourceID: "d1", Text: "Tuition is RM 1,800 per semester.", Score: 0.9},
		{SourceID: "d2", Text: "Scholarships are available.", Score: 0.5},
	}
	history := []*schema.Message{
		schema.UserMessage("hello"),
		schema.AssistantMessage("Hi, how can I help?", nil),
	}

	msgs, err := a.Assemble(context.Background(), model.AgentFAQ, "en", docs, history, "how much is tuition?")
	require.NoError(t, err)
	require.Len(t, msgs, 5)

	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Reply in English")
	assert.Equal(t, schema.System, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "CONTEXT (2 documents)")
	assert.Contains(t, msgs[1].Content, "RM 1,800")
	assert.Equal(t, schema.User, msgs[2].Role)
	assert.Equal(t, schema.Assistant, msgs[3].Role)
	assert.Equal(t, schema.User, msgs[4].Role)
	assert.Equal(t, "how much is tuition?", msgs[4].Content)
}

func TestAssembleLanguageFallsBackToEnglish(t *testing.T) {
	a := NewAssembler(0)
	msgs, err := a.Assemble(context.Background(), model.AgentCatchall, "xx", nil, nil, "hi")
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "Reply in English")
}

func TestAssembleMalayInstruction(t *testing.T) {
	a := NewAssembler(0)
	msgs, err := a.Assemble(context.Background(), model.AgentFAQ, "ms", nil, nil, "berapa yuran?")
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "Reply in Malay")
}

func TestAssembleNoContextOmitsBlock(t *testing.T) {
	a := NewAssembler(0)
	msgs, err := a.Assemble(context.Background(), model.AgentCatchall, "en", nil, nil, "hello")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.NotContains(t, msgs[0].Content, "CONTEXT")
}

func TestAssembleUnknownAgent(t *testing.T) {
	a := NewAssembler(0)
	_, err := a.Assemble(context.Background(), model.AgentID("bogus"), "en", nil, nil, "hi")
	assert.Error(t, err)
}

func TestTruncationDropsHistoryBeforeDocs(t *testing.T) {
	a := NewAssembler(1200)
	docs := []model.ContextDocument{
		{SourceID: "d1", Text: strings.Repeat("x", 200), Score: 0.9},
	}
	history := []*schema.Message{
		schema.UserMessage(strings.Repeat("a", 500)),
		schema.AssistantMessage(strings.Repeat("b", 500), nil),
	}

	msgs, err := a.Assemble(context.Background(), model.AgentFAQ, "en", docs, history, "final question")
	require.NoError(t, err)

	var sawOldest, sawContext, sawUser bool
	for _, m := range msgs {
		if strings.Contains(m.Content, "aaa") {
			sawOldest = true
		}
		if strings.Contains(m.Content, "CONTEXT") {
			sawContext = true
		}
		if m.Content == "final question" {
			sawUser = true
		}
	}
	assert.False(t, sawOldest, "oldest history must be dropped first")
	assert.True(t, sawContext, "context survives while history can still be dropped")
	assert.True(t, sawUser, "the user turn is never dropped")
}

func TestTruncationNeverDropsUserTurn(t *testing.T) {
	a := NewAssembler(10)
	msgs, err := a.Assemble(context.Background(), model.AgentFAQ, "en", nil, nil, "still here")
	require.NoError(t, err)
	assert.Equal(t, "still here", msgs[len(msgs)-1].Content)
}
