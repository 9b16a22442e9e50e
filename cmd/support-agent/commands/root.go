package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/tools"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/repo"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/core"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/ingest"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/shipping"
	"github.com/intersystems-ib/customer-support-agent-demo/pkg/irisdb"
	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
	pkgredis "github.com/intersystems-ib/customer-support-agent-demo/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Infrastructure
	IRIS     irisdb.Config
	Redis    pkgredis.Config
	Shipping shipping.Config

	// Agent configs
	ChatModel    model.ChatModelConfig
	Agent        model.AgentConfig
	Prompt       model.PromptConfig
	Conversation model.ConversationConfig
	Search       model.SearchConfig

	Ingest ingest.Config
}

var rootCmd = &cobra.Command{
	Use:   "support-agent",
	Short: "Customer support agent backed by an LLM and an IRIS data store",
	Long: `support-agent answers customer questions about orders, shipping,
policies and products. It drives a tool-calling LLM agent whose tools
query the database, run semantic search over the knowledge base and
call the shipping-status endpoint.

All settings come from environment variables (a local .env file is
loaded when present); GEMINI_API_KEY is required.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
}

// loadConfig loads .env, processes the environment and initialises logging.
func loadConfig() (*AppConfig, error) {
	if err := godotenv.Load(".env"); err != nil {
		// A missing .env is fine; the environment may be set directly.
		logx.Debug().Err(err).Msg("no .env file loaded")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})
	return &cfg, nil
}

// buildOrchestrator wires the database, the conversation store and the
// graph into a ready orchestrator. The returned cleanup closes clients.
func buildOrchestrator(ctx context.Context, cfg *AppConfig) (*agent.Orchestrator, func(), error) {
	db, err := cfg.IRIS.Open(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to IRIS: %w", err)
	}
	cleanup := func() { _ = db.Close() }

	ttl, err := cfg.Conversation.ParseTTL()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var conversationRepo model.ConversationRepository
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect to Redis: %w", err)
		}
		prev := cleanup
		cleanup = func() { _ = rdb.Close(); prev() }
		conversationRepo = repo.NewRedisConversationRepository(rdb, ttl)
		logx.Info().Msg("conversation history stored in Redis")
	} else {
		conversationRepo = repo.NewMemoryConversationRepository()
		logx.Debug().Msg("conversation history stored in memory")
	}

	orch, err := agent.NewOrchestrator(ctx, graph.Config{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		ChatModel:        cfg.ChatModel,
		Agent:            cfg.Agent,
		Prompt:           cfg.Prompt,
		Conversation:     cfg.Conversation,
		ConversationRepo: conversationRepo,
		ToolDeps: tools.Deps{
			DB:       db,
			Search:   cfg.Search,
			Shipping: shipping.NewClient(cfg.Shipping),
		},
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return orch, cleanup, nil
}
