package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/shipping"
)

type ShippingStatusInput struct {
	OrderStatus    string  `json:"order_status"`
	TrackingNumber string  `json:"tracking_number"`
	RequestID      string  `json:"request_id,omitempty"`
	URL            string  `json:"url,omitempty"`
	TimeoutSec     float64 `json:"timeout_sec,omitempty"`
}

func newShippingStatusTool(d Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolShippingStatus,
			Desc: "Returns shipping status information for an order given its status and tracking number: carrier, status, ETA and timeline events with locations. Failures come back as a structured error object, never an exception.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_status": {
					Type:     "string",
					Desc:     "Order status to report (e.g., 'Processing').",
					Required: true,
				},
				"tracking_number": {
					Type:     "string",
					Desc:     "Tracking number (e.g., 'DHL7788').",
					Required: true,
				},
				"request_id": {
					Type: "string",
					Desc: "Optional request id for tracing. If omitted, a UUID is generated.",
				},
				"url": {
					Type: "string",
					Desc: "Optional override for the shipping endpoint URL.",
				},
				"timeout_sec": {
					Type: "number",
					Desc: "Optional HTTP timeout (seconds). Default 10.",
				},
			}),
		},
		func(ctx context.Context, in *ShippingStatusInput) (*shipping.StatusResult, error) {
			res := d.Shipping.Status(ctx, shipping.StatusRequest{
				OrderStatus:    in.OrderStatus,
				TrackingNumber: in.TrackingNumber,
				RequestID:      in.RequestID,
				URL:            in.URL,
				TimeoutSec:     in.TimeoutSec,
			})
			return &res, nil
		},
	)
}
