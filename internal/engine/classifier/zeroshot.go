package classifier

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	errx "github.com/faix-chatbot/engine/internal/core/error"
	"github.com/faix-chatbot/engine/internal/engine/model"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

//go:embed template/zeroshot_prompt.txt
var zeroshotSystemPrompt string

// ChatModel is the slice of the Eino chat model surface the scorer needs.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// ZeroShotScorer asks a chat model to score the utterance against every
// candidate intent description and returns the best-scoring known label.
type ZeroShotScorer struct {
	chatModel ChatModel
}

func NewZeroShotScorer(cm ChatModel) *ZeroShotScorer {
	return &ZeroShotScorer{chatModel: cm}
}

// Score implements LabelScorer. Labels outside the configured enumeration in
// the model output are dropped; an output with no known labels is an error so
// the caller falls back to keywords.
func (z *ZeroShotScorer) Score(ctx context.Context, text string, labels []model.Intent) (model.Intent, float64, error) {
	system, err := renderSystem(ctx, labels)
	if err != nil {
		return model.IntentUnknown, 0, err
	}

	out, err := z.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(text),
	})
	if err != nil {
		return model.IntentUnknown, 0, errx.Wrap(fmt.Errorf("zeroshot generate: %w", err), errx.ErrClassificationUnavailable)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return model.IntentUnknown, 0, errx.Wrap(fmt.Errorf("zeroshot: empty model output"), errx.ErrClassificationUnavailable)
	}

	scores, err := parseLabelScores(out.Content)
	if err != nil {
		return model.IntentUnknown, 0, err
	}

	allowed := make(map[model.Intent]struct{}, len(labels))
	for _, l := range labels {
		allowed[l] = struct{}{}
	}
	best := model.IntentUnknown
	bestConf := 0.0
	for _, ls := range scores {
		intent, perr := model.ParseIntent(ls.Label)
		if perr != nil {
			logx.Debug().Str("component", "zeroshot").Str("label", ls.Label).Msg("model emitted unknown label, dropped")
			continue
		}
		if _, ok := allowed[intent]; !ok {
			continue
		}
		if ls.Confidence > bestConf {
			bestConf = ls.Confidence
			best = intent
		}
	}
	if best == model.IntentUnknown && bestConf == 0 {
		return model.IntentUnknown, 0, fmt.Errorf("zeroshot: no known labels in output")
	}
	return best, bestConf, nil
}

// renderSystem fills the embedded template through the Eino prompt component
// so prompt callbacks fire like every other model-facing prompt.
func renderSystem(ctx context.Context, labels []model.Intent) (string, error) {
	var b strings.Builder
	for _, l := range labels {
		fmt.Fprintf(&b, "%s: %s\n", l, model.IntentDescriptions[l])
	}
	content := strings.NewReplacer(
		"{TD}", tupDelim,
		"{RD}", recDelim,
		"{CD}", endDelim,
		"{labels}", b.String(),
	).Replace(zeroshotSystemPrompt)

	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("zeroshot prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("zeroshot prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
