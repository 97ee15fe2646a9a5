package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/logis-assistant/server/internal/agent"
	"github.com/logis-assistant/server/internal/agent/conversations"
	"github.com/logis-assistant/server/internal/agent/engine"
	"github.com/logis-assistant/server/internal/agent/model"
	"github.com/logis-assistant/server/internal/agent/repo"
	"github.com/logis-assistant/server/internal/agent/router"
	"github.com/logis-assistant/server/internal/agent/tools"
	"github.com/logis-assistant/server/internal/core"
	"github.com/logis-assistant/server/internal/feedback"
	"github.com/logis-assistant/server/internal/inventory"
	"github.com/logis-assistant/server/internal/server"
	logx "github.com/logis-assistant/server/pkg/logger"
	pkgredis "github.com/logis-assistant/server/pkg/redis"
	"github.com/logis-assistant/server/pkg/sqlitedb"
)

// AppConfig defines all configurable parameters for the service, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// Infrastructure
	Redis  pkgredis.Config
	SQLite sqlitedb.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Engine       model.EngineModelConfig
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

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	db, err := cfg.SQLite.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to open SQLite database")
	}
	defer db.Close()

	invStore, err := inventory.NewSQLiteStore(db)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise inventory store")
	}
	fbStore, err := feedback.NewSQLiteStore(db)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise feedback store")
	}

	if count, err := invStore.Count(ctx); err != nil {
		logx.Fatal().Err(err).Msg("failed to query inventory")
	} else {
		logx.Info().Int("products", count).Msg("inventory loaded")
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise Redis client")
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		logx.Fatal().Err(err).Str("ttl", cfg.Conversation.TTL).Msg("invalid CONVERSATION_TTL")
	}

	registry := tools.NewRegistry(tools.Deps{
		Store:    invStore,
		Resolver: inventory.NewResolver(invStore),
	})
	toolInfos, err := registry.Infos(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to collect tool schemas")
	}

	reasoner, err := engine.NewGemini(ctx, engine.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		ModelConfig: cfg.Engine,
	}, toolInfos)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise reasoning engine")
	}

	sessions := conversations.NewSessionManager(repo.NewRedisConversationRepository(rdb, ttl))

	a := agent.New(agent.Config{
		Engine:        reasoner,
		Registry:      registry,
		Responder:     router.NewResponder(invStore),
		Sessions:      sessions,
		Feedback:      fbStore,
		Prompt:        cfg.Prompt,
		EngineModel:   cfg.Engine.Model,
		MaxToolRounds: cfg.Conversation.Tools.MaxCalls,
	})

	srv := server.New(a, invStore, sessions)

	go func() {
		if err := srv.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
	logx.Info().Msg("server stopped")
}
