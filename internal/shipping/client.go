// Package shipping calls the shipping-status REST endpoint. Every call
// returns a structured result, never an error: the agent loop must always
// receive parseable JSON, including for transport failures.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

// Config holds the endpoint settings, sourced from the environment.
type Config struct {
	URL        string  `envconfig:"IRIS_SHIPPING_STATUS_URL" default:"http://localhost:52773/api/shipping/status"`
	TimeoutSec float64 `envconfig:"SHIPPING_TIMEOUT_SEC" default:"10"`
}

// StatusRequest describes one shipping-status lookup. RequestID, URL and
// TimeoutSec are optional overrides.
type StatusRequest struct {
	OrderStatus    string
	TrackingNumber string
	RequestID      string
	URL            string
	TimeoutSec     float64
}

// StatusResult is the normalised outcome. On failure only Error is set
// beyond the correlation metadata.
type StatusResult struct {
	Endpoint   string `json:"endpoint"`
	RequestID  string `json:"requestId"`
	HTTPStatus int    `json:"httpStatus,omitempty"`
	Response   any    `json:"response,omitempty"`
	Error      string `json:"error,omitempty"`
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	// Timeouts are applied per call via context so callers can override.
	return &Client{cfg: cfg, http: &http.Client{}}
}

// Status posts {orderStatus, trackingNumber} to the endpoint with an
// X-Request-Id header and returns the normalised response.
func (c *Client) Status(ctx context.Context, req StatusRequest) StatusResult {
	endpoint := strings.TrimRight(req.URL, "/")
	if endpoint == "" {
		endpoint = strings.TrimRight(c.cfg.URL, "/")
	}
	rid := req.RequestID
	if rid == "" {
		rid = uuid.NewString()
	}

	timeout := req.TimeoutSec
	if timeout <= 0 {
		timeout = c.cfg.TimeoutSec
	}
	if timeout <= 0 {
		timeout = 10
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout*float64(time.Second)))
	defer cancel()

	payload, err := json.Marshal(map[string]string{
		"orderStatus":    req.OrderStatus,
		"trackingNumber": req.TrackingNumber,
	})
	if err != nil {
		return errorResult(endpoint, rid, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errorResult(endpoint, rid, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", rid)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logx.Warn().Err(err).Str("endpoint", endpoint).Str("request_id", rid).Msg("shipping status call failed")
		return errorResult(endpoint, rid, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResult(endpoint, rid, err)
	}

	var data any
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "application/json") {
		if err := json.Unmarshal(body, &data); err != nil {
			return errorResult(endpoint, rid, err)
		}
	} else {
		data = map[string]any{
			"status": resp.StatusCode,
			"body":   string(body),
		}
	}

	return StatusResult{
		Endpoint:   endpoint,
		RequestID:  rid,
		HTTPStatus: resp.StatusCode,
		Response:   data,
	}
}

func errorResult(endpoint, rid string, err error) StatusResult {
	return StatusResult{
		Endpoint:  endpoint,
		RequestID: rid,
		Error:     fmt.Sprintf("%T: %v", err, err),
	}
}
