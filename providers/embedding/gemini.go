package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/JidouAI/metrio-memory/pkg/envutil"
	"github.com/JidouAI/metrio-memory/pkg/errs"
	"github.com/JidouAI/metrio-memory/pkg/httpx"
	"github.com/JidouAI/metrio-memory/pkg/logger"
)

const (
	geminiDefaultModel   = "gemini-embedding-001"
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"
	// Items per batchEmbedContents call.
	geminiBatchSize = 100
)

// The model name lands in the request path, so it is validated up front.
var geminiModelPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

type geminiProvider struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewGeminiProvider(cfg Config, log *logger.Logger) (Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini embedding provider: missing api key")
	}
	model := cfg.Model
	if model == "" {
		model = geminiDefaultModel
	}
	if !geminiModelPattern.MatchString(model) {
		return nil, fmt.Errorf("gemini embedding provider: invalid model name %q", model)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	return &geminiProvider{
		log:        log.With("provider", "GeminiEmbedding"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxRetries: envutil.Int("GEMINI_EMBED_MAX_RETRIES", 2),
	}, nil
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiEmbedRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type geminiBatchRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiBatchResponse struct {
	Embeddings []struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}

func (p *geminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	path := fmt.Sprintf("/v1beta/models/%s:embedContent?key=%s", p.model, p.apiKey)
	req := geminiEmbedRequest{
		Model:   "models/" + p.model,
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	}
	var resp geminiEmbedResponse
	if err := p.do(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return validateVector(resp.Embedding.Values)
}

func (p *geminiProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	path := fmt.Sprintf("/v1beta/models/%s:batchEmbedContents?key=%s", p.model, p.apiKey)
	results := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += geminiBatchSize {
		end := start + geminiBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		req := geminiBatchRequest{Requests: make([]geminiEmbedRequest, len(batch))}
		for i, text := range batch {
			req.Requests[i] = geminiEmbedRequest{
				Model:   "models/" + p.model,
				Content: geminiContent{Parts: []geminiPart{{Text: text}}},
			}
		}

		var resp geminiBatchResponse
		if err := p.do(ctx, path, req, &resp); err != nil {
			return nil, err
		}
		// batchEmbedContents preserves request order within one call.
		if len(resp.Embeddings) != len(batch) {
			return nil, fmt.Errorf("%w: expected %d embeddings, got %d", errs.ErrInvalidEmbedding, len(batch), len(resp.Embeddings))
		}
		for _, e := range resp.Embeddings {
			vec, err := validateVector(e.Values)
			if err != nil {
				return nil, err
			}
			results = append(results, vec)
		}
	}

	return results, nil
}

func (p *geminiProvider) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (p *geminiProvider) do(ctx context.Context, path string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := p.doOnce(ctx, path, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("gemini embeddings decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == p.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		p.log.Warn("Gemini embeddings request retrying",
			"attempt", attempt+1,
			"max_retries", p.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
