package engine

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/logis-assistant/server/internal/agent/model"
	logx "github.com/logis-assistant/server/pkg/logger"
)

// Config holds what is needed to construct the Gemini reasoning engine.
type Config struct {
	APIKey      string
	BaseURL     string
	ModelConfig model.EngineModelConfig
}

// NewGemini builds a tool-calling chat model bound to the given action
// schemas. The rest of the agent depends only on the
// einomodel.ToolCallingChatModel contract, so the engine stays swappable.
func NewGemini(ctx context.Context, cfg Config, toolInfos []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
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

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.ModelConfig.Model,
		Temperature: &cfg.ModelConfig.Temperature,
		MaxTokens:   &cfg.ModelConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini chat model")
		return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
	}

	bound, err := chatModel.WithTools(toolInfos)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to Gemini chat model")
		return nil, fmt.Errorf("bind tools: %w", err)
	}

	logx.Debug().Str("model", cfg.ModelConfig.Model).Int("tools", len(toolInfos)).
		Msg("Gemini reasoning engine ready")
	return bound, nil
}
