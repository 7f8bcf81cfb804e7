package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidJSON = errors.New("invalid json from LLM")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// Client generates structured JSON from a system prompt plus input payload.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// New builds a client for the given provider. Supported providers are
// "gemini" and "groq" (OpenAI-compatible chat completions).
func New(ctx context.Context, provider, apiKey, model string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "gemini":
		return NewGeminiClient(ctx, apiKey, model)
	case "groq", "openai":
		return NewOpenAIClient(apiKey, model)
	default:
		return nil, fmt.Errorf("llmclient: unknown provider %q", provider)
	}
}
