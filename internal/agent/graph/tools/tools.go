// Package tools defines the fixed tool set the agent may invoke. Each tool
// is a static descriptor (name, parameter schema, description) plus a
// function that validates its inputs, scopes data access to the caller's
// email, and returns a structured JSON-serialisable result.
package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/shipping"
	"github.com/intersystems-ib/customer-support-agent-demo/pkg/irisdb"
)

// Tool names. The agent model calls tools by these identifiers.
const (
	ToolLastOrders     = "sql_last_orders"
	ToolOrderByID      = "sql_order_by_id"
	ToolOrdersInRange  = "sql_orders_in_range"
	ToolDocSearch      = "rag_doc_search"
	ToolProductSearch  = "rag_product_search"
	ToolShippingStatus = "shipping_status"
)

// Notes returned on empty or unknown states. Tool results carry these
// instead of raising, so the agent treats them as "cannot answer".
const (
	noteUnknownUser = "unknown user_email"
	noteNotOwned    = "order not found or not owned by this user"
	noteEmptyQuery  = "empty query"
)

// Deps carries everything the tool set needs. The database client is held
// for the lifetime of the tool set and shared across tools.
type Deps struct {
	DB       *irisdb.Client
	Search   model.SearchConfig
	Shipping *shipping.Client
}

// All returns the fixed tool set in registration order.
func All(d Deps) []tool.BaseTool {
	return []tool.BaseTool{
		newLastOrdersTool(d),
		newOrderByIDTool(d),
		newOrdersInRangeTool(d),
		newDocSearchTool(d),
		newProductSearchTool(d),
		newShippingStatusTool(d),
	}
}

// GetToolInfos resolves the static descriptors for binding to the model.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ===== Row value helpers =====
// Drivers disagree on scan types for numeric columns; these converters
// keep the tool outputs stable.

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	default:
		return 0
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func asStringPtr(v any) *string {
	if v == nil {
		return nil
	}
	s := asString(v)
	return &s
}

func asFloatPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	f := asFloat64(v)
	return &f
}

// clampInt returns v limited to [min, max], with def substituted for zero.
func clampInt(v, def, min, max int) int {
	if v == 0 {
		v = def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
