package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.anthropic.com"

// Sampling are the generation parameters sent with every request.
type Sampling struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopK        int     `yaml:"top_k"`
	TopP        float64 `yaml:"top_p"`
}

// DefaultSampling returns max_tokens 2000, temperature 0.7, top_k 40,
// top_p 0.4.
func DefaultSampling() Sampling {
	return Sampling{MaxTokens: 2000, Temperature: 0.7, TopK: 40, TopP: 0.4}
}

// ClaudeClient calls the Anthropic Messages API to draft letter text.
type ClaudeClient struct {
	apiKey     string
	model      string
	baseURL    string
	sampling   Sampling
	stats      *LLMStats
	httpClient *http.Client
}

// Option configures a ClaudeClient.
type Option func(*ClaudeClient)

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(c *ClaudeClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithSampling overrides DefaultSampling.
func WithSampling(s Sampling) Option {
	return func(c *ClaudeClient) { c.sampling = s }
}

// WithStats records the latency of every call into s.
func WithStats(s *LLMStats) Option {
	return func(c *ClaudeClient) { c.stats = s }
}

func NewClaudeClient(apiKey, model string, opts ...Option) *ClaudeClient {
	c := &ClaudeClient{
		apiKey:   apiKey,
		model:    model,
		baseURL:  defaultBaseURL,
		sampling: DefaultSampling(),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	TopK        int                `json:"top_k,omitempty"`
	TopP        float64            `json:"top_p,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("empty response from claude")

// Generate sends prompt as a single user message and returns the answer
// text, cleaned of surrounding fences and extra blank lines.
func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (text string, err error) {
	if c.stats != nil {
		start := time.Now()
		defer func() { c.stats.Record(time.Since(start), err) }()
	}

	reqBody := anthropicRequest{
		Model:       c.model,
		MaxTokens:   c.sampling.MaxTokens,
		Temperature: c.sampling.Temperature,
		TopK:        c.sampling.TopK,
		TopP:        c.sampling.TopP,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claude api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	var sb strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text = Clean(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Close releases resources.
func (c *ClaudeClient) Close() {
	c.httpClient.CloseIdleConnections()
}
