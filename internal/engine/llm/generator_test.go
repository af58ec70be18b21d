package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/faix-chatbot/engine/internal/core/error"
	"github.com/faix-chatbot/engine/internal/engine/model"
)

type fakeChatModel struct {
	content string
	err     error
	delay   time.Duration
	opts    []einomodel.Option
}

func (f *fakeChatModel) Generate(ctx context.Context, _ []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.opts = opts
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func testAgent(timeout time.Duration) model.AgentDescriptor {
	return model.AgentDescriptor{ID: model.AgentFAQ, Timeout: timeout}
}

func TestGenerateSuccess(t *testing.T) {
	g := NewGenerator(&fakeChatModel{content: "Tuition is RM 1,800."})
	out, err := g.Generate(context.Background(), testAgent(time.Second), nil)
	require.NoError(t, err)
	assert.Equal(t, "Tuition is RM 1,800.", out)
}

func TestGenerateAppliesAgentTokenBudget(t *testing.T) {
	fake := &fakeChatModel{content: "ok answer"}
	g := NewGenerator(fake)
	agent := testAgent(time.Second)
	agent.MaxTokens = 512

	_, err := g.Generate(context.Background(), agent, nil)
	require.NoError(t, err)

	common := einomodel.GetCommonOptions(&einomodel.Options{}, fake.opts...)
	require.NotNil(t, common.MaxTokens)
	assert.Equal(t, 512, *common.MaxTokens)
}

func TestGenerateNoTokenBudgetLeavesOptionUnset(t *testing.T) {
	fake := &fakeChatModel{content: "ok answer"}
	g := NewGenerator(fake)

	_, err := g.Generate(context.Background(), testAgent(time.Second), nil)
	require.NoError(t, err)

	common := einomodel.GetCommonOptions(&einomodel.Options{}, fake.opts...)
	assert.Nil(t, common.MaxTokens)
}

func TestGenerateCallerCancellationIsNotTimeout(t *testing.T) {
	g := NewGenerator(&fakeChatModel{content: "late", delay: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := g.Generate(ctx, testAgent(5*time.Second), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, errx.ErrGenerationTimeout))
	assert.False(t, errors.Is(err, errx.ErrGenerationService))
}

func TestGenerateTimeout(t *testing.T) {
	g := NewGenerator(&fakeChatModel{content: "late", delay: 200 * time.Millisecond})
	_, err := g.Generate(context.Background(), testAgent(10*time.Millisecond), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrGenerationTimeout))
	assert.False(t, errors.Is(err, errx.ErrGenerationService))
}

func TestGenerateServiceError(t *testing.T) {
	g := NewGenerator(&fakeChatModel{err: errors.New("quota exceeded")})
	_, err := g.Generate(context.Background(), testAgent(time.Second), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrGenerationService))
}

func TestGenerateEmptyOutputIsServiceError(t *testing.T) {
	g := NewGenerator(&fakeChatModel{content: "   "})
	_, err := g.Generate(context.Background(), testAgent(time.Second), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrGenerationService))
}
