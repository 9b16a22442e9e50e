package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/conversations"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/nodes"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/observers"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/tools"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

// Runner executes the compiled graph for one user turn. Alongside the
// answer it returns the trace of model and tool events for that run.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, []observers.TraceEvent, error)
}

// Config holds everything needed to compose the full support graph end-to-end.
type Config struct {
	APIKey           string
	BaseURL          string
	ChatModel        model.ChatModelConfig
	Agent            model.AgentConfig
	Prompt           model.PromptConfig
	Conversation     model.ConversationConfig
	ConversationRepo model.ConversationRepository
	ToolDeps         tools.Deps
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	SupportModel    *nodes.SupportModel
	MessagesManager *conversations.MessagesManager
	PromptConfig    *model.PromptConfig
	ToolDeps        tools.Deps
	ToolMaxCalls    int
	MaxSteps        int
}

// GraphBuilder handles the construction of the agent conversation graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable  compose.Runnable[model.QueryInput, *schema.Message]
	verbosity int
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, []observers.TraceEvent, error) {
	rec := observers.NewTraceRecorder()
	out, err := r.runnable.Invoke(ctx, in,
		compose.WithCallbacks(observers.NewAllCallbacks(rec, r.verbosity)))
	if err != nil {
		return "", rec.Events(), err
	}
	if out == nil {
		return "", rec.Events(), nil
	}
	return out.Content, rec.Events(), nil
}

// BuildSupportGraph composes the chat model, the messages manager and the
// tool set, builds the graph, and returns a Runner.
func BuildSupportGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}

	sm, err := nodes.NewSupportModel(ctx, nodes.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   &cfg.ChatModel,
	})
	if err != nil {
		return nil, err
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		SupportModel:    sm,
		MessagesManager: mm,
		PromptConfig:    &cfg.Prompt,
		ToolDeps:        cfg.ToolDeps,
		ToolMaxCalls:    cfg.Agent.MaxToolCalls,
		MaxSteps:        cfg.Agent.MaxSteps,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Support graph built successfully")
	return &graphRunner{runnable: runnable, verbosity: cfg.Agent.Verbosity}, nil
}

// BuildGraph constructs and returns the compiled agent graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.SupportModel == nil || config.SupportModel.Chat == nil {
		return nil, fmt.Errorf("support model is not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.PromptConfig == nil {
		return nil, fmt.Errorf("prompt config is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// setupTools configures the support tools and binds them to the chat model
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	supportTools := tools.All(b.config.ToolDeps)
	toolInfos, err := tools.GetToolInfos(ctx, supportTools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return fmt.Errorf("failed to get tool infos: %w", err)
	}

	if err := b.config.SupportModel.BindSupportTools(ctx, toolInfos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to support model")
		return fmt.Errorf("failed to bind tools to support model: %w", err)
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               supportTools,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			// Gracefully handle hallucinated or malformed tool calls (e.g., empty name)
			logx.Warn().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown or invalid tool call; returning fallback result")
			return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
		},
		ToolArgumentsHandler: sanitizeToolArguments,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}

	b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.ToolMaxCalls)),
	)

	return nil
}

// sanitizeToolArguments best-effort normalizes model-produced arguments
// before dispatch; it never fails hard.
func sanitizeToolArguments(ctx context.Context, name, arguments string) (string, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil {
		// keep original if not JSON
		return arguments, nil
	}

	trimString := func(key string) {
		if v, ok := m[key]; ok {
			switch vv := v.(type) {
			case string:
				m[key] = strings.TrimSpace(vv)
			default:
				m[key] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
	}
	clampNumber := func(key string, min, max int) {
		v, ok := m[key]
		if !ok {
			return
		}
		switch vv := v.(type) {
		case float64:
			// JSON numbers decode as float64
			m[key] = clampInt(int(vv), min, max)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(vv)); err == nil {
				m[key] = clampInt(n, min, max)
			} else {
				delete(m, key)
			}
		default:
			delete(m, key)
		}
	}

	switch name {
	case tools.ToolLastOrders:
		trimString("user_email")
		clampNumber("limit", 1, 30)
	case tools.ToolOrderByID:
		trimString("user_email")
	case tools.ToolOrdersInRange:
		trimString("user_email")
		trimString("start_date")
		trimString("end_date")
	case tools.ToolDocSearch:
		trimString("query")
		clampNumber("k", 1, 10)
	case tools.ToolProductSearch:
		trimString("query")
		clampNumber("k", 1, 20)
	case tools.ToolShippingStatus:
		trimString("order_status")
		trimString("tracking_number")
	}

	out, err := json.Marshal(m)
	if err != nil {
		// fallback to original
		return arguments, nil
	}
	return string(out), nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.MessagesManager, b.config.PromptConfig),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeSupportChatModel,
		b.config.SupportModel.Chat,
		compose.WithStatePreHandler(nodes.NewSupportChatModelPreHandler(b.config.ToolMaxCalls)),
		compose.WithStatePostHandler(nodes.NewSupportChatModelPostHandler(b.config.MessagesManager, b.config.SupportModel.ModelName)),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeSupportChatModel},
		{nodes.NodeToolExecutor, nodes.NodeSupportChatModel},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeSupportChatModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Limit total run steps to avoid infinite loops in branching or tool retries.
	// Each agent step costs two graph steps (model call + tool execution).
	maxSteps := 4 + b.config.MaxSteps*2
	if maxSteps < 10 {
		maxSteps = 10
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

// clampInt returns v limited to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
