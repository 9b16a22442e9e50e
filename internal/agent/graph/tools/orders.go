package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
)

// orderColumns is the shared projection for all order lookups: the order
// joined with its product and, when present, its shipment.
const orderColumns = `
    o.OrderID,
    o.OrderDate,
    o.Status,
    p.ProductID,
    p.Name     AS ProductName,
    p.Category AS Category,
    p.Price    AS Price,
    s.TrackingCode
FROM Agent_Data.Orders AS o
JOIN Agent_Data.Products  AS p ON p.ProductID = o.ProductID
LEFT JOIN Agent_Data.Shipments AS s ON s.OrderID = o.OrderID`

const (
	defaultOrderLimit = 3
	maxOrderLimit     = 30
)

// ===================================
// Last Orders Tool
// ===================================

type LastOrdersInput struct {
	UserEmail string `json:"user_email"`
	Limit     int    `json:"limit,omitempty"`
}

type OrdersOutput struct {
	Orders []model.OrderRow `json:"orders"`
	Note   string           `json:"note,omitempty"`
}

func newLastOrdersTool(d Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolLastOrders,
			Desc: "Return the most recent orders for a user (by email), newest first. Each row includes product name, category, price and the shipment tracking code when one exists.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_email": {
					Type:     "string",
					Desc:     "Customer email (required).",
					Required: true,
				},
				"limit": {
					Type: "number",
					Desc: "Max rows to return (default 3, max 30).",
				},
			}),
		},
		func(ctx context.Context, in *LastOrdersInput) (*OrdersOutput, error) {
			if err := d.DB.EnsureConnected(ctx); err != nil {
				return nil, err
			}

			cid, ok, err := d.resolveCustomerID(ctx, in.UserEmail)
			if err != nil {
				return nil, err
			}
			if !ok {
				return &OrdersOutput{Orders: []model.OrderRow{}, Note: noteUnknownUser}, nil
			}

			limit := clampInt(in.Limit, defaultOrderLimit, 1, maxOrderLimit)
			rows, err := d.DB.Query(ctx, `
SELECT`+orderColumns+`
WHERE o.CustomerID = ?
ORDER BY o.OrderDate DESC
LIMIT ?`, cid, limit)
			if err != nil {
				return nil, err
			}

			return &OrdersOutput{Orders: rowsToOrders(rows)}, nil
		},
	)
}

// ===================================
// Order By ID Tool
// ===================================

type OrderByIDInput struct {
	UserEmail string `json:"user_email"`
	OrderID   int64  `json:"order_id"`
}

type OrderByIDOutput struct {
	Order *model.OrderRow `json:"order"`
	Note  string          `json:"note,omitempty"`
}

func newOrderByIDTool(d Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolOrderByID,
			Desc: "Return details for a specific order only if it belongs to the given user (by email). A miss and a not-owned order are indistinguishable.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_email": {
					Type:     "string",
					Desc:     "Customer email (required).",
					Required: true,
				},
				"order_id": {
					Type:     "number",
					Desc:     "OrderID (required).",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *OrderByIDInput) (*OrderByIDOutput, error) {
			if err := d.DB.EnsureConnected(ctx); err != nil {
				return nil, err
			}

			cid, ok, err := d.resolveCustomerID(ctx, in.UserEmail)
			if err != nil {
				return nil, err
			}
			if !ok {
				return &OrderByIDOutput{Note: noteUnknownUser}, nil
			}

			// Ownership is a SQL predicate, not a post-filter, so the
			// existence of other users' orders never leaks.
			row, err := d.DB.QueryOne(ctx, `
SELECT`+orderColumns+`
WHERE o.CustomerID = ? AND o.OrderID = ?`, cid, in.OrderID)
			if err != nil {
				return nil, err
			}
			if row == nil {
				return &OrderByIDOutput{Note: noteNotOwned}, nil
			}

			order := rowToOrder(row)
			return &OrderByIDOutput{Order: &order}, nil
		},
	)
}

// ===================================
// Orders In Range Tool
// ===================================

type OrdersInRangeInput struct {
	UserEmail string `json:"user_email"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func newOrdersInRangeTool(d Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolOrdersInRange,
			Desc: "Return orders for a user (by email) within the inclusive date range [start_date, end_date], newest first.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_email": {
					Type:     "string",
					Desc:     "Customer email (required).",
					Required: true,
				},
				"start_date": {
					Type:     "string",
					Desc:     "Start date in 'YYYY-MM-DD' (required).",
					Required: true,
				},
				"end_date": {
					Type:     "string",
					Desc:     "End date in 'YYYY-MM-DD' (required).",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *OrdersInRangeInput) (*OrdersOutput, error) {
			if err := d.DB.EnsureConnected(ctx); err != nil {
				return nil, err
			}

			cid, ok, err := d.resolveCustomerID(ctx, in.UserEmail)
			if err != nil {
				return nil, err
			}
			if !ok {
				return &OrdersOutput{Orders: []model.OrderRow{}, Note: noteUnknownUser}, nil
			}

			rows, err := d.DB.Query(ctx, `
SELECT`+orderColumns+`
WHERE o.CustomerID = ?
  AND o.OrderDate BETWEEN TO_DATE(?, 'YYYY-MM-DD') AND TO_DATE(?, 'YYYY-MM-DD')
ORDER BY o.OrderDate DESC`, cid, in.StartDate, in.EndDate)
			if err != nil {
				return nil, err
			}

			return &OrdersOutput{Orders: rowsToOrders(rows)}, nil
		},
	)
}

// ===== Row mapping =====

func rowToOrder(row map[string]any) model.OrderRow {
	return model.OrderRow{
		OrderID:      asInt64(row["OrderID"]),
		OrderDate:    asString(row["OrderDate"]),
		Status:       asString(row["Status"]),
		ProductID:    asInt64(row["ProductID"]),
		ProductName:  asString(row["ProductName"]),
		Category:     asString(row["Category"]),
		Price:        asFloat64(row["Price"]),
		TrackingCode: asStringPtr(row["TrackingCode"]),
	}
}

func rowsToOrders(rows []map[string]any) []model.OrderRow {
	orders := make([]model.OrderRow, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, rowToOrder(row))
	}
	return orders
}
