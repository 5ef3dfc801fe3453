// Package client talks to a guardiand server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"codeguardian/internal/generate"
	"codeguardian/pkg/types"
)

// DefaultBaseURL is where guardiand listens by default.
const DefaultBaseURL = "http://localhost:8000"

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// Client calls the guardiand HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	oai     *openai.Client
}

// New returns a client for baseURL. A zero timeout means no client-side limit;
// generation on CPU can take minutes.
func New(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := &http.Client{Timeout: timeout}
	oc := openai.DefaultConfig("")
	oc.BaseURL = base + "/v1"
	oc.HTTPClient = hc
	return &Client{baseURL: base, http: hc, oai: openai.NewClientWithConfig(oc)}
}

// Generate calls POST /generate. maxTokens <= 0 leaves the server default.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := types.GenerateRequest{Prompt: prompt}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	var out types.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/generate", body, &out); err != nil {
		return "", err
	}
	return out.Result, nil
}

// Complete produces the same instruction-templated completion as Generate,
// routed through the OpenAI-compatible endpoint.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = types.DefaultMaxTokens
	}
	resp, err := c.oai.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     "local",
		Prompt:    generate.FormatPrompt(prompt),
		MaxTokens: maxTokens,
		Stop:      generate.StopSequences(),
	})
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion: server returned no choices")
	}
	return resp.Choices[0].Text, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (types.HealthResponse, error) {
	var out types.HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// Status calls GET /status.
func (c *Client) Status(ctx context.Context) (types.StatusResponse, error) {
	var out types.StatusResponse
	err := c.do(ctx, http.MethodGet, "/status", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode/100 != 2 {
		var e types.ErrorResponse
		_ = json.Unmarshal(b, &e)
		return &APIError{Status: resp.StatusCode, Detail: e.Detail}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
