package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

const (
	anthropicDefaultModel     = "claude-sonnet-4-20250514"
	anthropicDefaultMaxTokens = 2048
)

const extractionSystemPrompt = `You extract durable user facts from a conversation transcript.
Return ONLY a JSON object of the form:
{"memories": [{"content": "...", "memoryType": "preference|fact|goal|general", "importance": 1-10}]}
Extract only facts worth remembering across sessions. Return {"memories": []} when there is nothing durable.`

const mergeSystemPrompt = `You maintain a short rolling profile summary of a user.
Given the existing summary and newly extracted facts, return ONLY the updated summary text.
Keep it concise, factual and in third person.`

type anthropicProvider struct {
	log       *logger.Logger
	model     string
	maxTokens int64
	// complete issues one text completion. Split out so tests can stub the
	// network call.
	complete func(ctx context.Context, system, user string) (string, error)
}

func NewAnthropicProvider(cfg Config, log *logger.Logger) (Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic extraction provider: missing api key")
	}
	model := cfg.Model
	if model == "" {
		model = anthropicDefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	p := &anthropicProvider{
		log:       log.With("provider", "AnthropicExtraction"),
		model:     model,
		maxTokens: maxTokens,
	}
	p.complete = func(ctx context.Context, system, user string) (string, error) {
		resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(p.model),
			MaxTokens: p.maxTokens,
			System:    []anthropic.TextBlockParam{{Text: system}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
			},
		})
		if err != nil {
			return "", err
		}
		var text string
		for _, block := range resp.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}
		return text, nil
	}
	return p, nil
}

func (p *anthropicProvider) ExtractMemories(ctx context.Context, conversation []types.ConversationMessage) (types.ExtractionResult, error) {
	lines := make([]string, 0, len(conversation))
	for _, m := range conversation {
		lines = append(lines, m.Role+": "+m.Content)
	}

	raw, err := p.complete(ctx, extractionSystemPrompt, strings.Join(lines, "\n"))
	if err != nil {
		return types.ExtractionResult{}, err
	}

	result, perr := parseExtraction(raw)
	if perr != nil {
		p.log.Error("Failed to parse extraction response", "error", perr.Error())
		return types.ExtractionResult{}, perr
	}
	return result, nil
}

func (p *anthropicProvider) MergeSummary(ctx context.Context, existingSummary string, newMemories []string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"existing_summary": existingSummary,
		"new_memories":     newMemories,
	})
	if err != nil {
		return "", err
	}

	merged, err := p.complete(ctx, mergeSystemPrompt, string(payload))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(merged), nil
}
