package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouter implements Client against OpenRouter's OpenAI-compatible
// chat completions endpoint.
type OpenRouter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenRouter returns a Client for the given API key. An empty baseURL
// selects the public OpenRouter endpoint.
func NewOpenRouter(apiKey, baseURL string, timeout time.Duration) *OpenRouter {
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	return &OpenRouter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete posts one system and one user message and returns
// choices[0].message.content. It makes exactly one request.
func (c *OpenRouter) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	if c.apiKey == "" {
		return "", gatewayError("openrouter: API key not set")
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	})
	if err != nil {
		return "", gatewayError("openrouter: encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", gatewayError("openrouter: build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", gatewayError("openrouter: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", gatewayError("openrouter: read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", gatewayError("openrouter: %s: %s", resp.Status, preview(raw))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", gatewayError("openrouter: decode response: %v", err)
	}
	if len(out.Choices) == 0 {
		return "", gatewayError("openrouter: no choices in response")
	}

	return out.Choices[0].Message.Content, nil
}
