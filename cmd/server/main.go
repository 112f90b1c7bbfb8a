package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"google.golang.org/genai"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/graph"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/leads"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/repo"
	"github.com/JayanthSrinivas06/autostream-agent/internal/api"
	"github.com/JayanthSrinivas06/autostream-agent/internal/core"
	"github.com/JayanthSrinivas06/autostream-agent/internal/rag"
	logx "github.com/JayanthSrinivas06/autostream-agent/pkg/logger"
	pkgredis "github.com/JayanthSrinivas06/autostream-agent/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis  pkgredis.Config
	Server model.ServerConfig

	// LLM provider
	APIKey string `envconfig:"GEMINI_API_KEY" required:"true"`

	// Agent configs
	Classifier   model.ClassifierModelConfig
	Response     model.ResponseModelConfig
	Embedding    model.EmbeddingConfig
	Retriever    model.RetrieverConfig
	Prompt       model.PromptConfig
	Conversation model.ConversationConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.FromEnv()})

	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
	}
	defer rdb.Close()
	logx.Info().Msg("Connected to Redis")

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		logx.Fatal().Str("ttl", cfg.Conversation.TTL).Err(err).Msg("Invalid CONVERSATION_TTL")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create GenAI client")
	}

	// The knowledge index is built once here and shared read-only across
	// all sessions.
	embedder := rag.NewGenAIEmbedder(client, cfg.Embedding.Model)
	index, err := rag.BuildIndexFromFile(ctx, embedder, cfg.Retriever)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build knowledge index")
	}
	retriever := rag.NewRetriever(index, embedder, cfg.Retriever.TopK, cfg.Prompt.BusinessName)

	runner, err := graph.BuildTurnGraph(ctx, graph.Config{
		Client:          client,
		ClassifierModel: cfg.Classifier,
		ResponseModel:   cfg.Response,
		Prompt:          cfg.Prompt,
		Conversation:    cfg.Conversation,
		Retriever:       retriever,
		Sink:            leads.LogSink{},
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build turn graph")
	}

	sessions := repo.NewRedisSessionRepository(rdb, ttl)

	server := api.NewServer(cfg.Server.Port, runner, sessions)
	if err := server.Start(); err != nil {
		logx.Fatal().Err(err).Msg("API server stopped")
	}
}
