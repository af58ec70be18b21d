package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/faix-chatbot/engine/internal/engine/classifier"
	"github.com/faix-chatbot/engine/internal/engine/conversations"
	"github.com/faix-chatbot/engine/internal/engine/feedback"
	"github.com/faix-chatbot/engine/internal/engine/kb"
	"github.com/faix-chatbot/engine/internal/engine/llm"
	"github.com/faix-chatbot/engine/internal/engine/model"
	"github.com/faix-chatbot/engine/internal/engine/prompt"
	"github.com/faix-chatbot/engine/internal/engine/retriever"
	"github.com/faix-chatbot/engine/internal/engine/validator"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

// Config is everything Build needs to stand up a working engine.
type Config struct {
	APIKey  string
	BaseURL string

	Classifier   model.ClassifierConfig
	Generation   model.GenerationConfig
	Retriever    model.RetrieverConfig
	Validator    model.ValidatorConfig
	Feedback     model.FeedbackConfig
	Conversation model.ConversationConfig
	Agents       model.AgentConfig

	ConversationRepo model.ConversationRepository
	FeedbackStore    model.FeedbackStore
}

// Build wires the whole pipeline from configuration: chat models, classifier,
// registry, retriever, prompt assembler, fallback chain and feedback filter.
func Build(ctx context.Context, cfg Config) (*Engine, error) {
	models, err := llm.NewChatModels(ctx, llm.ChatModelConfig{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		ClassifierCfg: cfg.Classifier,
		GenerationCfg: cfg.Generation,
	})
	if err != nil {
		return nil, err
	}

	cls, err := classifier.New(cfg.Classifier, classifier.NewZeroShotScorer(models.Classifier))
	if err != nil {
		return nil, err
	}

	registry, err := model.NewAgentRegistry(cfg.Agents)
	if err != nil {
		return nil, err
	}

	kbase, err := kb.Load()
	if err != nil {
		return nil, err
	}

	var embedder retriever.Embedder
	if cfg.Retriever.EmbeddingURL != "" {
		timeout, err := time.ParseDuration(cfg.Retriever.EmbeddingTimeout)
		if err != nil {
			return nil, fmt.Errorf("embedding timeout %q: %w", cfg.Retriever.EmbeddingTimeout, err)
		}
		embedder = retriever.NewOllamaEmbedder(cfg.Retriever.EmbeddingURL, cfg.Retriever.EmbeddingModel, timeout)
	}
	ret, err := retriever.New(ctx, cfg.Retriever, kbase, embedder)
	if err != nil {
		return nil, err
	}
	logx.Info().Str("retrieval", ret.Describe()).Msg("retriever ready")

	conv, err := conversations.NewManager(cfg.ConversationRepo, cfg.Conversation)
	if err != nil {
		return nil, err
	}

	chain := validator.NewChain(
		llm.NewGenerator(models.Response),
		kbase,
		validator.New(cfg.Validator),
	)

	return New(Deps{
		Classifier: cls,
		Registry:   registry,
		Retriever:  ret,
		Assembler:  prompt.NewAssembler(0),
		Chain:      chain,
		Filter:     feedback.NewAvoidanceFilter(cfg.FeedbackStore, cfg.Feedback.SimilarityThreshold),
		Feedback:   cfg.FeedbackStore,
		Conv:       conv,
	})
}
