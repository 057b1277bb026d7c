package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/manana2520/ai-agent-outreach-email/internal/config"
)

// Provider is one completion backend for the analysis and adaptation
// collaborator.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    string
	Content string
}

type CompletionResponse struct {
	Content      string
	FinishReason string
	ModelName    string
	Usage        Usage
	Latency      time.Duration
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client routes completion requests to configured providers with a per-call
// timeout.
type Client struct {
	providers       map[string]Provider
	defaultProvider string
	timeout         time.Duration
}

func NewClient(cfg *config.LLMConfig) (*Client, error) {
	c := &Client{
		providers:       make(map[string]Provider),
		defaultProvider: cfg.DefaultProvider,
		timeout:         cfg.Timeout,
	}

	if cfg.OpenAIAPIKey != "" {
		c.providers["openai"] = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	if cfg.OpenRouterAPIKey != "" {
		c.providers["openrouter"] = NewOpenRouterProvider(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	}

	if len(c.providers) == 0 {
		return nil, fmt.Errorf("no LLM providers configured")
	}

	if _, ok := c.providers[c.defaultProvider]; !ok {
		for name := range c.providers {
			c.defaultProvider = name
			break
		}
	}

	return c, nil
}

// Complete routes the request to the default provider, falling back to any
// other configured provider when it fails.
func (c *Client) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	return c.CompleteWithFallback(ctx, req)
}

func (c *Client) CompleteWithProvider(ctx context.Context, providerName string, req *CompletionRequest) (*CompletionResponse, error) {
	provider, ok := c.providers[providerName]
	if !ok {
		return nil, fmt.Errorf("provider %s not found", providerName)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return provider.Complete(ctx, req)
}

// CompleteWithFallback tries the default provider first, then every other
// configured provider until one succeeds.
func (c *Client) CompleteWithFallback(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	resp, err := c.CompleteWithProvider(ctx, c.defaultProvider, req)
	if err == nil {
		return resp, nil
	}
	lastErr := fmt.Errorf("%s: %w", c.defaultProvider, err)

	for name := range c.providers {
		if name == c.defaultProvider {
			continue
		}
		resp, err := c.CompleteWithProvider(ctx, name, req)
		if err == nil {
			return resp, nil
		}
		lastErr = fmt.Errorf("%s: %w", name, err)
	}

	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}
