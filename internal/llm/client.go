package llm

import (
	"context"
	"errors"
	"fmt"

	"zomaksho/internal/config"
)

// ErrGateway is returned for every failure talking to the completion service:
// transport errors, non-2xx statuses and undecodable bodies alike.
var ErrGateway = errors.New("llm gateway request failed")

// Client sends a prompt to an LLM and returns the reply text.
type Client interface {
	Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error)
}

// New builds the client for the configured provider.
func New(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenRouter:
		return NewOpenRouter(cfg.APIKey, cfg.BaseURL, cfg.Timeout), nil
	case config.ProviderGemini:
		return NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

func gatewayError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrGateway, fmt.Sprintf(format, args...))
}

func preview(raw []byte) string {
	const maxPreview = 200
	if len(raw) > maxPreview {
		return string(raw[:maxPreview]) + "..."
	}
	return string(raw)
}
