package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DreamCats/docrag/internal/config"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float32
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{0, 1, 0},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 1, 1},
			b:        []float32{-1, -1, -1},
			expected: -1.0,
		},
		{
			name:     "similar vectors",
			a:        []float32{1, 2, 3},
			b:        []float32{1.1, 2.1, 3.1},
			expected: 0.999, // Approximately
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Similarity(tt.a, tt.b)
			diff := result - tt.expected
			if diff < 0 {
				diff = -diff
			}
			if diff > 0.001 {
				t.Errorf("Similarity() = %v, want %v (diff: %v)", result, tt.expected, diff)
			}
		})
	}
}

func TestSimilarityPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for dimension mismatch")
		}
	}()

	Similarity([]float32{1, 2}, []float32{1, 2, 3})
}

func TestOllamaClientEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embedding: []float32{0.1, 0.2, 0.3},
		})
	}))
	defer srv.Close()

	client, err := NewOllamaClient(&config.EmbeddingConfig{
		BaseURL: srv.URL,
		Model:   "nomic-embed-text",
	})
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}

	emb, err := client.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(emb) != 3 || emb[0] != 0.1 {
		t.Errorf("Embed() = %v", emb)
	}
}

func TestOllamaClientModelMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewOllamaClient(&config.EmbeddingConfig{BaseURL: srv.URL, Model: "missing"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for missing model")
	}
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("error should wrap ErrServiceUnavailable, got: %v", err)
	}
}

func TestServiceEmbedBatchPreservesOrder(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req ollamaEmbedRequest
		json.NewDecoder(r.Body).Decode(&req)
		// Return a vector keyed on input length so ordering is observable
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embedding: []float32{float32(len(req.Prompt))},
		})
	}))
	defer srv.Close()

	cfg := &config.EmbeddingConfig{Provider: "ollama", BaseURL: srv.URL, Model: "m", BatchSize: 2}
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	texts := []string{"a", "bb", "", "cccc"}
	got, err := svc.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0][0] != 1 || got[1][0] != 2 || got[3][0] != 4 {
		t.Errorf("batch results out of order: %v", got)
	}
	// empty text is skipped, not sent
	if got[2] != nil {
		t.Errorf("empty text should produce nil embedding, got %v", got[2])
	}
	if calls != 3 {
		t.Errorf("server calls = %d, want 3", calls)
	}
}
