// Package console provides the interactive operator front-end for a running
// gateway: an HTTP client for its endpoints and a prompt-driven REPL with
// tool-name completion and persistent command history.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"viterbit-gateway/internal/application/dto"
)

// defaultTimeout bounds each console request to the gateway.
const defaultTimeout = 30 * time.Second

// apiKeyHeader carries the console credential on every request.
const apiKeyHeader = "X-API-Key"

// Client issues requests against a gateway's HTTP endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a gateway client. baseURL is the gateway root, for
// example "http://localhost:8000". apiKey may be empty when the gateway
// runs without authentication.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Health fetches the liveness probe.
func (c *Client) Health(ctx context.Context) (*dto.HealthStatus, error) {
	var status dto.HealthStatus
	if err := c.get(ctx, "/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListTools fetches the catalog descriptors. The endpoint serves the
// snapshot as a bare JSON array.
func (c *Client) ListTools(ctx context.Context) ([]dto.ToolDescriptor, error) {
	var tools []dto.ToolDescriptor
	if err := c.get(ctx, "/tools", &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// CallTool dispatches one invocation and returns its envelope. Business
// failures come back inside the envelope, not as an error.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (*dto.CallResult, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"name":      name,
		"arguments": arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tools/call", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, rejectionError(resp)
	}

	var result dto.CallResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return &result, nil
}

// get performs one GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rejectionError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
}

// rejectionError turns a non-200 response into an error carrying the
// gateway's detail message when one is present.
func rejectionError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var detail dto.ErrorDetail
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, detail.Detail)
	}
	return fmt.Errorf("gateway returned %d", resp.StatusCode)
}
