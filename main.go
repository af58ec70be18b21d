package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/faix-chatbot/engine/internal/core"
	"github.com/faix-chatbot/engine/internal/engine"
	"github.com/faix-chatbot/engine/internal/engine/feedback"
	"github.com/faix-chatbot/engine/internal/engine/model"
	"github.com/faix-chatbot/engine/internal/engine/repo"
	logx "github.com/faix-chatbot/engine/pkg/logger"
	pkgredis "github.com/faix-chatbot/engine/pkg/redis"
)

// AppConfig defines all configurable parameters for the engine, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Pipeline configs
	Classifier   model.ClassifierConfig
	Generation   model.GenerationConfig
	Retriever    model.RetrieverConfig
	Validator    model.ValidatorConfig
	Feedback     model.FeedbackConfig
	Conversation model.ConversationConfig
	Agents       model.AgentConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}
	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	convTTL, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}
	fbTTL, err := time.ParseDuration(envCfg.Feedback.TTL)
	if err != nil {
		log.Fatalf("Invalid FEEDBACK_TTL '%s': %v", envCfg.Feedback.TTL, err)
	}

	eng, err := engine.Build(ctx, engine.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		Classifier:       envCfg.Classifier,
		Generation:       envCfg.Generation,
		Retriever:        envCfg.Retriever,
		Validator:        envCfg.Validator,
		Feedback:         envCfg.Feedback,
		Conversation:     envCfg.Conversation,
		Agents:           envCfg.Agents,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, convTTL),
		FeedbackStore:    feedback.NewRedisStore(rdb, envCfg.Feedback.WindowSize, fbTTL),
	})
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Priority pattern: faculty history",
			query:       "When was FAIX established?",
		},
		{
			description: "Schedule routing",
			query:       "When does the semester start?",
		},
		{
			description: "Entity-driven course lookup",
			query:       "What will I learn in BAXI 3413?",
		},
		{
			description: "Malay fee question",
			query:       "Berapa yuran untuk pelajar tempatan?",
		},
		{
			description: "Farewell",
			query:       "Thanks, that's all!",
		},
	}

	sessionID := "demo-session-1"

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)

		out, err := eng.Process(ctx, model.QueryInput{
			Message:   test.query,
			SessionID: sessionID,
		})
		if err != nil {
			log.Fatalf("Failed to process query %d: %v", i+1, err)
		}

		fmt.Printf("Intent: %s (%.2f, %s) -> agent %s\n", out.Intent, out.Confidence, out.Origin, out.AgentID)
		fmt.Printf("Response: %s\n", out.Response)
		fmt.Println("------------------------------------------------")

		time.Sleep(500 * time.Millisecond)
	}
}
