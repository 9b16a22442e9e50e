package model

import (
	"fmt"
	"time"
)

// ================ Config ================

// ChatModelConfig configures the single response model. The API key is
// required and checked at construction time.
type ChatModelConfig struct {
	Model       string  `envconfig:"AGENT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"AGENT_MAX_TOKENS" default:"4096"`
	Temperature float32 `envconfig:"AGENT_TEMPERATURE" default:"0.2"`
}

// AgentConfig bounds the delegated reasoning loop.
type AgentConfig struct {
	MaxSteps     int `envconfig:"AGENT_MAX_STEPS" default:"8"`
	MaxToolCalls int `envconfig:"AGENT_MAX_TOOL_CALLS" default:"10"`
	// Verbosity: 0 answers only, 1 progress logs, 2 full step trace.
	Verbosity int `envconfig:"AGENT_VERBOSITY" default:"1"`
}

// ConversationConfig controls history persistence for interactive sessions.
type ConversationConfig struct {
	TTL      string `envconfig:"CONVERSATION_TTL" default:"15m"`
	MaxTurns int    `envconfig:"CONVERSATION_MAX_TURNS" default:"10"`
}

// ParseTTL parses the configured TTL into a duration.
func (c ConversationConfig) ParseTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", c.TTL, err)
	}
	return ttl, nil
}

// PromptConfig parameterises the system prompt template.
type PromptConfig struct {
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"Acme Outfitters"`
	BusinessType string `envconfig:"PROMPT_BUSINESS_TYPE" default:"online retail store"`
}

// SearchConfig names the server-side embedding configuration used by the
// semantic search tools. The name is validated against an allow-list
// pattern before it is ever inlined into SQL.
type SearchConfig struct {
	EmbeddingConfig string `envconfig:"EMBEDDING_CONFIG_NAME" default:"my-openai-config"`
}
