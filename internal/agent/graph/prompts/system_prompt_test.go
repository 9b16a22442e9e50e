package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/tools"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
)

func TestRenderSupportSystem(t *testing.T) {
	out, err := RenderSupportSystem(context.Background(), model.PromptConfig{
		BusinessName: "Acme Outfitters",
		BusinessType: "online retail store",
	}, "alice@example.com")
	require.NoError(t, err)

	assert.Contains(t, out, "Acme Outfitters")
	assert.Contains(t, out, "online retail store")
	assert.Contains(t, out, "alice@example.com")
	for _, name := range []string{
		tools.ToolLastOrders, tools.ToolOrderByID, tools.ToolOrdersInRange,
		tools.ToolDocSearch, tools.ToolProductSearch, tools.ToolShippingStatus,
	} {
		assert.Contains(t, out, name)
	}
	// No unresolved template variables left behind.
	assert.NotContains(t, out, "{{")
}
