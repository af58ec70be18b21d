// Package llm owns the chat model plumbing: Gemini model construction and
// the timeout-bounded generation call used by the fallback chain.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/faix-chatbot/engine/internal/engine/model"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

// ChatModelConfig holds what model construction needs.
type ChatModelConfig struct {
	APIKey         string
	BaseURL        string
	ClassifierCfg  model.ClassifierConfig
	GenerationCfg  model.GenerationConfig
	ThinkingBudget int32
}

// ChatModels holds the classifier and response chat models.
type ChatModels struct {
	Classifier        *gemini.ChatModel
	Response          *gemini.ChatModel
	ClassifierModel   string
	ResponseModelName string
}

// NewChatModels creates both chat models over one Gemini client.
func NewChatModels(ctx context.Context, cfg ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	thinking := cfg.ThinkingBudget
	if thinking <= 0 {
		thinking = 2000
	}

	classifierModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.ClassifierCfg.Model,
		Temperature: &cfg.ClassifierCfg.Temperature,
		MaxTokens:   &cfg.ClassifierCfg.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(thinking),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	responseModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.GenerationCfg.Model,
		Temperature: &cfg.GenerationCfg.Temperature,
		MaxTokens:   &cfg.GenerationCfg.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(thinking),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}

	return &ChatModels{
		Classifier:        classifierModel,
		Response:          responseModel,
		ClassifierModel:   cfg.ClassifierCfg.Model,
		ResponseModelName: cfg.GenerationCfg.Model,
	}, nil
}
