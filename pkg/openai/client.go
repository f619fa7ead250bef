package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps an OpenAI-compatible chat completion endpoint for script
// generation. Gemini is reachable through its OpenAI-compatible base URL.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(baseUrl, apiKey, model, proxyAddr string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		cfg.BaseURL = baseUrl
	}

	transport := &http.Transport{}
	if proxyAddr != "" {
		if proxyUrl, err := url.Parse(proxyAddr); err == nil {
			transport.Proxy = http.ProxyURL(proxyUrl)
		}
	}

	// No client timeout: long generations are allowed to run
	cfg.HTTPClient = &http.Client{
		Transport: transport,
	}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// GenerateText implements types.ScriptGenerator.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
