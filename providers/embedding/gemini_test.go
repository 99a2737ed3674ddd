package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JidouAI/metrio-memory/pkg/errs"
	"github.com/JidouAI/metrio-memory/pkg/logger"
)

func newGeminiTestProvider(t *testing.T, baseURL string) Provider {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	p, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: baseURL}, log)
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	return p
}

func TestGeminiEmbedSingle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-embedding-001:embedContent" {
			t.Errorf("path: got=%q", r.URL.Path)
		}
		if key := r.URL.Query().Get("key"); key != "test-key" {
			t.Errorf("key param: got=%q", key)
		}
		var req geminiEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "models/gemini-embedding-001" {
			t.Errorf("model: got=%q", req.Model)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": []float64{0.1, 0.2}},
		})
	}))
	defer srv.Close()

	p := newGeminiTestProvider(t, srv.URL)
	vec, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("vector length: got=%d", len(vec))
	}
}

func TestGeminiEmbedBatchPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-embedding-001:batchEmbedContents" {
			t.Errorf("path: got=%q", r.URL.Path)
		}
		var req geminiBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		embeddings := make([]map[string]any, len(req.Requests))
		for i := range req.Requests {
			embeddings[i] = map[string]any{"values": []float64{float64(i)}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": embeddings})
	}))
	defer srv.Close()

	p := newGeminiTestProvider(t, srv.URL)
	vecs, err := p.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 3 || vecs[2][0] != 2 {
		t.Fatalf("batch order: got=%v", vecs)
	}
}

func TestGeminiEmbedBatchCountMismatchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": []map[string]any{{"values": []float64{1}}},
		})
	}))
	defer srv.Close()

	p := newGeminiTestProvider(t, srv.URL)
	_, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	if !errors.Is(err, errs.ErrInvalidEmbedding) {
		t.Fatalf("expected ErrInvalidEmbedding, got: %v", err)
	}
}

func TestGeminiEmbedNonSuccessReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("denied"))
	}))
	defer srv.Close()

	p := newGeminiTestProvider(t, srv.URL)
	_, err := p.Embed(context.Background(), "x")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got: %v", err)
	}
	if httpErr.StatusCode != http.StatusForbidden {
		t.Fatalf("status: want=403 got=%d", httpErr.StatusCode)
	}
}

func TestNewGeminiProviderRejectsUnsafeModelName(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	_, err = NewGeminiProvider(Config{APIKey: "k", Model: "bad/model?x=1"}, log)
	if err == nil {
		t.Fatalf("expected error for unsafe model name")
	}
}
