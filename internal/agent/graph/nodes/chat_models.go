package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Model   *model.ChatModelConfig
}

// SupportModel wraps the single chat model driving the support agent loop.
type SupportModel struct {
	Chat      *gemini.ChatModel
	ModelName string
}

// NewSupportModel creates the support chat model with the given configuration
func NewSupportModel(ctx context.Context, config ChatModelConfig) (*SupportModel, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing Gemini API key")
	}

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

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Model.Model,
		Temperature: &config.Model.Temperature,
		MaxTokens:   &config.Model.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating support model")
		return nil, fmt.Errorf("error creating support model: %w", err)
	}

	return &SupportModel{
		Chat:      chatModel,
		ModelName: config.Model.Model,
	}, nil
}

// BindSupportTools binds the support tools to the chat model
func (sm *SupportModel) BindSupportTools(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := sm.Chat.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Int("tool_count", len(tools)).Msg("Successfully bound tools to support model")
	return nil
}
