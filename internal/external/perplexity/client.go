// Package perplexity discovers trending stocks through the Perplexity
// chat-completions API. The sonar model grounds its answers in live
// web search, which makes it a cheap news-discovery feed.
package perplexity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
)

const systemPrompt = "You are a financial news analyst. When mentioning stocks, " +
	"always include their ticker symbols in parentheses, e.g., Apple (AAPL). " +
	"Be specific and concise."

// DiscoveryQueries are the default trending-stock prompts.
var DiscoveryQueries = []string{
	"What stocks are trending in financial news today? List specific ticker symbols.",
	"Which stocks had unusual volume or significant price movements today? Include ticker symbols.",
	"What companies announced major news (earnings, FDA approvals, contracts) this week? Include ticker symbols.",
}

// Client handles communication with the Perplexity API.
// ⭐ SSOT: Perplexity calls go through this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	model      string
}

// NewClient creates a new Perplexity client. The API key travels as a
// default header on every request.
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.PerplexityConfig) *Client {
	httpClient.WithHeader("Authorization", "Bearer "+cfg.APIKey)
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

// Answer is one grounded model response.
type Answer struct {
	Content   string
	Citations []string
}

// Query sends one discovery prompt.
func (c *Client) Query(ctx context.Context, query string) (*Answer, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
		MaxTokens:   500,
		Temperature: 0.1,
	}

	resp, err := c.httpClient.PostJSON(ctx, c.baseURL+"/chat/completions", req)
	if err != nil {
		return nil, fmt.Errorf("perplexity query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("perplexity query: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("perplexity query: decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("perplexity query: empty choices")
	}

	return &Answer{
		Content:   chat.Choices[0].Message.Content,
		Citations: chat.Citations,
	}, nil
}
