package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	errx "github.com/faix-chatbot/engine/internal/core/error"
	"github.com/faix-chatbot/engine/internal/engine/model"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

// ChatModel is the slice of the Eino chat model surface the generator needs.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Generator runs a single generation bounded by the agent's time budget.
type Generator struct {
	chatModel ChatModel
}

func NewGenerator(cm ChatModel) *Generator {
	return &Generator{chatModel: cm}
}

// Generate calls the model under the agent's timeout and token budget. A
// deadline hit maps to the timeout sentinel so the fallback chain can tell
// "slow" from "broken"; a caller cancellation stays a plain context.Canceled;
// everything else maps to the service sentinel.
func (g *Generator) Generate(ctx context.Context, agent model.AgentDescriptor, msgs []*schema.Message) (string, error) {
	start := time.Now()
	gctx, cancel := context.WithTimeout(ctx, agent.Timeout)
	defer cancel()

	var opts []einomodel.Option
	if agent.MaxTokens > 0 {
		opts = append(opts, einomodel.WithMaxTokens(agent.MaxTokens))
	}

	out, err := g.chatModel.Generate(gctx, msgs, opts...)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			logx.Debug().Str("agent", string(agent.ID)).Msg("generation canceled by caller")
			return "", fmt.Errorf("generation canceled: %w", err)
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(gctx.Err(), context.DeadlineExceeded) {
			logx.Warn().
				Str("agent", string(agent.ID)).
				Dur("elapsed", elapsed).
				Dur("budget", agent.Timeout).
				Msg("generation timed out")
			return "", errx.Wrap(err, errx.ErrGenerationTimeout)
		}
		logx.Error().Err(err).Str("agent", string(agent.ID)).Msg("generation failed")
		return "", errx.Wrap(err, errx.ErrGenerationService)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errx.Wrap(errors.New("empty model output"), errx.ErrGenerationService)
	}

	logx.Debug().
		Str("agent", string(agent.ID)).
		Dur("elapsed", elapsed).
		Int("chars", len(out.Content)).
		Msg("generation complete")
	return out.Content, nil
}
