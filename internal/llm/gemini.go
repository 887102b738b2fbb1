package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGeminiClient(apiKey, baseURL string, timeout time.Duration) *GeminiClient {
	if baseURL == "" {
		baseURL = geminiBaseURL
	}
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  map[string]any  `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete sends the prompt to Gemini generateContent and returns the first
// candidate's text.
func (g *GeminiClient) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	if g.apiKey == "" {
		return "", gatewayError("gemini: missing GEMINI_API_KEY")
	}
	if model == "" {
		return "", gatewayError("gemini: missing model")
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userMessage}}},
		},
		GenerationConfig: map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 2048,
		},
	}
	if systemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", gatewayError("gemini: encode request: %v", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", gatewayError("gemini: build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", gatewayError("gemini: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", gatewayError("gemini: read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", gatewayError("gemini api error: %s", preview(raw))
	}

	var result geminiResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", gatewayError("gemini: decode response: %v", err)
	}

	if len(result.Candidates) == 0 ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return "", gatewayError("empty gemini response")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
