// Package extraction distills a conversation transcript into candidate
// memory items and maintains the rolling profile summary. The capability is
// optional; conversation ingestion fails without it.
package extraction

import (
	"context"
	"fmt"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

type Provider interface {
	ExtractMemories(ctx context.Context, conversation []types.ConversationMessage) (types.ExtractionResult, error)
	MergeSummary(ctx context.Context, existingSummary string, newMemories []string) (string, error)
}

type Config struct {
	// Provider selects the variant: "anthropic" or "custom".
	Provider string
	APIKey   string
	// Model overrides the variant's default model name.
	Model string
	// MaxTokens caps each completion; 0 means the variant default.
	MaxTokens int64
	// BaseURL overrides the variant's default endpoint.
	BaseURL string
	// Custom is used when Provider is "custom".
	Custom Provider
}

func New(cfg Config, log *logger.Logger) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg, log)
	case "custom":
		if cfg.Custom == nil {
			return nil, fmt.Errorf("extraction provider %q requires Custom to be set", cfg.Provider)
		}
		return cfg.Custom, nil
	default:
		return nil, fmt.Errorf("unknown extraction provider: %q", cfg.Provider)
	}
}
