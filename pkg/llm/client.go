package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Completer is the completion-service contract the debate core depends on.
// One implementation serves all three roles; the model identifier selects
// the backing model per request.
type Completer interface {
	Complete(ctx context.Context, systemPreamble, userContent, model string) (string, error)
}

// CompletionError reports a failed or empty completion call.
type CompletionError struct {
	Model  string
	Reason string
	Err    error
}

func (e *CompletionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion failed for model %s: %s: %v", e.Model, e.Reason, e.Err)
	}
	return fmt.Sprintf("completion failed for model %s: %s", e.Model, e.Reason)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Client is an OpenRouter-backed Completer using the OpenAI chat
// completion API.
type Client struct {
	client *openai.Client
}

// NewClient creates a completion client for the given API key and base
// URL. An empty baseURL falls back to DefaultBaseURL.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{
		Transport: &headerTransport{base: http.DefaultTransport},
	}

	return &Client{client: openai.NewClientWithConfig(cfg)}
}

// Complete sends one synchronous chat completion request and returns the
// raw text of the first choice.
func (c *Client) Complete(ctx context.Context, systemPreamble, userContent, model string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPreamble,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userContent,
			},
		},
		Temperature: 0.7,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &CompletionError{Model: model, Reason: "request failed", Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &CompletionError{Model: model, Reason: "empty response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// headerTransport attaches the OpenRouter attribution headers to every
// outgoing request.
type headerTransport struct {
	base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("HTTP-Referer", "https://github.com/u1i/crewai-debate")
	req.Header.Set("X-Title", "AI Debate Crew")
	return t.base.RoundTrip(req)
}
