// Package webhook posts run reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ccollicutt/logsieve/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// RunIDHeader carries the report's run id.
const RunIDHeader = "X-Logsieve-Run-Id"

// maxResponseBody limits how much of a reply is kept.
const maxResponseBody = 1024 * 1024

// Trigger decides when a target is notified.
type Trigger string

const (
	TriggerOnErrors Trigger = "on_errors"
	TriggerAlways   Trigger = "always"
	TriggerNever    Trigger = "never"
)

// Triggers lists the accepted trigger values.
var Triggers = []Trigger{TriggerOnErrors, TriggerAlways, TriggerNever}

// Fires reports whether the trigger applies to report. An empty trigger
// behaves as on_errors.
func (t Trigger) Fires(report *output.Report) bool {
	switch t {
	case TriggerAlways:
		return true
	case TriggerNever:
		return false
	default:
		return report.HasErrors()
	}
}

// Target is one configured endpoint.
type Target struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
	Trigger Trigger
}

// Client sends reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new webhook client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
		userAgent:  "logsieve-webhook",
	}
}

// Response contains the result of a webhook request.
type Response struct {
	URL        string
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Notify sends report to every target whose trigger fires, in order.
// Targets that do not fire are skipped and produce no response.
func (c *Client) Notify(ctx context.Context, report *output.Report, targets []Target) []*Response {
	var responses []*Response
	for _, t := range targets {
		if !t.Trigger.Fires(report) {
			continue
		}
		responses = append(responses, c.Send(ctx, report, t))
	}
	return responses
}

// Send posts report to one target regardless of its trigger.
func (c *Client) Send(ctx context.Context, report *output.Report, t Target) *Response {
	start := time.Now()
	resp := &Response{URL: t.URL}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fail(fmt.Errorf("failed to marshal report: %w", err))
	}

	timeout := t.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RunIDHeader, report.Metadata.RunID)
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}
