package oracles

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey    string
	BaseURL   string
	IntentCfg *model.IntentModelConfig
	RankCfg   *model.RankModelConfig
}

// ChatModels holds both the intent and the ranking chat models, built over a
// shared Gemini client.
type ChatModels struct {
	Intent          *gemini.ChatModel
	Rank            *gemini.ChatModel
	IntentModelName string
	RankModelName   string
}

// NewChatModels creates both oracle chat models with the given configuration.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModelIntent, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.IntentCfg.Model,
		Temperature: &config.IntentCfg.Temperature,
		MaxTokens:   &config.IntentCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating intent model")
		return nil, fmt.Errorf("error creating intent model: %w", err)
	}

	chatModelRank, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RankCfg.Model,
		Temperature: &config.RankCfg.Temperature,
		MaxTokens:   &config.RankCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating ranking model")
		return nil, fmt.Errorf("error creating ranking model: %w", err)
	}

	return &ChatModels{
		Intent:          chatModelIntent,
		Rank:            chatModelRank,
		IntentModelName: config.IntentCfg.Model,
		RankModelName:   config.RankCfg.Model,
	}, nil
}
