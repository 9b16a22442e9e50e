package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/tools"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
)

//go:embed template/system_prompt.txt
var supportSystemPrompt string

// RenderSupportSystem renders the dynamic support system prompt and triggers prompt callbacks.
func RenderSupportSystem(ctx context.Context, config model.PromptConfig, email string) (string, error) {
	// Render via Eino prompt component (Go template) to both format and emit callbacks
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(supportSystemPrompt),
	)
	vars := map[string]any{
		"BusinessName":       config.BusinessName,
		"BusinessType":       config.BusinessType,
		"Email":              email,
		"LastOrdersTool":     tools.ToolLastOrders,
		"OrderByIDTool":      tools.ToolOrderByID,
		"OrdersInRangeTool":  tools.ToolOrdersInRange,
		"DocSearchTool":      tools.ToolDocSearch,
		"ProductSearchTool":  tools.ToolProductSearch,
		"ShippingStatusTool": tools.ToolShippingStatus,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("support prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("support prompt render: empty result")
	}
	return msgs[0].Content, nil
}
