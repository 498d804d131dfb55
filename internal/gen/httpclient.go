package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// HTTPClient implements the Client interface using HTTP/JSON-RPC.
type HTTPClient struct {
	http      *http.Client
	requestID atomic.Int64
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// NewHTTPClient creates a new generator HTTP client.
func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends a prompt via the generate JSON-RPC method and returns the
// completed job.
func (c *HTTPClient) Generate(ctx context.Context, endpoint string, req GenerateRequest) (*Job, error) {
	var job Job
	if err := c.call(ctx, endpoint, MethodGenerate, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob retrieves a job by ID via the jobs/get JSON-RPC method.
func (c *HTTPClient) GetJob(ctx context.Context, endpoint string, req GetJobRequest) (*Job, error) {
	var job Job
	if err := c.call(ctx, endpoint, MethodGetJob, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CancelJob cancels a running job via the jobs/cancel JSON-RPC method.
func (c *HTTPClient) CancelJob(ctx context.Context, endpoint string, req CancelJobRequest) (*Job, error) {
	var job Job
	if err := c.call(ctx, endpoint, MethodCancelJob, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Discover fetches the generator card from the well-known URI.
func (c *HTTPClient) Discover(ctx context.Context, baseURL string) (*GeneratorCard, error) {
	url := strings.TrimRight(baseURL, "/") + "/.well-known/generator-card.json"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("gen: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gen: discover agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gen: discover agent: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var card GeneratorCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("gen: decode generator card: %w", err)
	}
	return &card, nil
}

// nextID returns a monotonically increasing request ID for JSON-RPC calls.
func (c *HTTPClient) nextID() int64 {
	return c.requestID.Add(1)
}

// call performs one JSON-RPC request/response round trip against endpoint.
func (c *HTTPClient) call(ctx context.Context, endpoint, method string, params, result any) error {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("gen: marshal params: %w", err)
	}

	body, err := json.Marshal(JSONRPCRequest{
		JSONRPC: JSONRPCVersion,
		ID:      c.nextID(),
		Method:  method,
		Params:  rawParams,
	})
	if err != nil {
		return fmt.Errorf("gen: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gen: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gen: %s: %w", method, err)
	}
	defer resp.Body.Close()

	var rpcResp JSONRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("gen: %s: decode response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("gen: %s: rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("gen: %s: decode result: %w", method, err)
	}
	return nil
}
