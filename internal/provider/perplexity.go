package provider

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/awjames6875/shipflow/internal/conf"
)

// PerplexityClient performs web-grounded research via the Perplexity chat
// completions API.
type PerplexityClient struct {
	cfg    conf.Perplexity
	client *resty.Client
}

func NewPerplexityClient(cfg conf.Perplexity) *PerplexityClient {
	return &PerplexityClient{
		cfg: cfg,
		client: newClient(cfg.BaseURL, cfg.TimeoutSeconds).
			SetAuthToken(cfg.APIKey),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	SearchRecencyFilter string        `json:"search_recency_filter,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Research sends a single-turn research prompt and returns the answer text.
func (c *PerplexityClient) Research(ctx context.Context, prompt string) (string, error) {
	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(perplexityRequest{
			Model:               c.cfg.Model,
			Messages:            []chatMessage{{Role: "user", Content: prompt}},
			SearchRecencyFilter: c.cfg.SearchRecency,
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", upstreamErr("perplexity", err.Error(), 0, "")
	}
	if resp.StatusCode() != http.StatusOK {
		return "", upstreamErr("perplexity", "chat completion failed", resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return "", upstreamErr("perplexity", "response contains no choices", resp.StatusCode(), resp.String())
	}
	return out.Choices[0].Message.Content, nil
}
