// Package embedding turns text into fixed-length float vectors via a
// pluggable provider. Two hosted variants are built in (OpenAI and Gemini);
// callers can also supply their own implementation.
package embedding

import (
	"context"
	"fmt"

	"github.com/JidouAI/metrio-memory/pkg/logger"
)

type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type Config struct {
	// Provider selects the variant: "openai", "gemini" or "custom".
	Provider string
	APIKey   string
	// Model overrides the variant's default model name.
	Model string
	// BaseURL overrides the variant's default endpoint.
	BaseURL string
	// Custom is used when Provider is "custom".
	Custom Provider
}

func New(cfg Config, log *logger.Logger) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg, log)
	case "gemini":
		return NewGeminiProvider(cfg, log)
	case "custom":
		if cfg.Custom == nil {
			return nil, fmt.Errorf("embedding provider %q requires Custom to be set", cfg.Provider)
		}
		return cfg.Custom, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
}

// HTTPError is a non-success response from a hosted embedding endpoint. It
// propagates to the caller of the enclosing store operation untouched.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("embedding request failed (%d): %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }
