package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not fail: %v", err)
	}
	if cfg.Embedding.Provider != "ollama" {
		t.Errorf("default provider = %q, want ollama", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Model != "nomic-embed-text" {
		t.Errorf("default embedding model = %q, want nomic-embed-text", cfg.Embedding.Model)
	}
	if cfg.Chunking.Size != 1000 || cfg.Chunking.Overlap != 200 {
		t.Errorf("default chunking = %d/%d, want 1000/200", cfg.Chunking.Size, cfg.Chunking.Overlap)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("default top_k = %d, want 5", cfg.Retrieval.TopK)
	}
	if cfg.Store.Backend != "local" {
		t.Errorf("default backend = %q, want local", cfg.Store.Backend)
	}
}

func TestLoadFromFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docrag.yaml")
	data := `
embedding:
  model: mxbai-embed-large
  dimensions: 1024
llm:
  model: qwen2.5
chunking:
  size: 500
  overlap: 50
retrieval:
  top_k: 8
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Embedding.Model != "mxbai-embed-large" {
		t.Errorf("embedding model = %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1024 {
		t.Errorf("dimensions = %d, want 1024", cfg.Embedding.Dimensions)
	}
	if cfg.LLM.Model != "qwen2.5" {
		t.Errorf("llm model = %q", cfg.LLM.Model)
	}
	if cfg.Chunking.Size != 500 || cfg.Chunking.Overlap != 50 {
		t.Errorf("chunking = %d/%d, want 500/50", cfg.Chunking.Size, cfg.Chunking.Overlap)
	}
	if cfg.Retrieval.TopK != 8 {
		t.Errorf("top_k = %d, want 8", cfg.Retrieval.TopK)
	}
	// unset fields still get defaults
	if cfg.Embedding.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", cfg.Embedding.Timeout)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCRAG_EMBED_MODEL", "bge-m3")
	t.Setenv("DOCRAG_LLM_URL", "http://10.0.0.2:11434")
	t.Setenv("DOCRAG_TOP_K", "3")
	t.Setenv("DOCRAG_COLLECTION", "notes")

	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Embedding.Model != "bge-m3" {
		t.Errorf("embedding model = %q, want bge-m3", cfg.Embedding.Model)
	}
	if cfg.LLM.BaseURL != "http://10.0.0.2:11434" {
		t.Errorf("llm base_url = %q", cfg.LLM.BaseURL)
	}
	// DOCRAG_LLM_URL covers embeddings too when no dedicated embed URL is set
	if cfg.Embedding.BaseURL != "http://10.0.0.2:11434" {
		t.Errorf("embedding base_url = %q", cfg.Embedding.BaseURL)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("top_k = %d, want 3", cfg.Retrieval.TopK)
	}
	if cfg.Indexer.DefaultCollection != "notes" {
		t.Errorf("default collection = %q, want notes", cfg.Indexer.DefaultCollection)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"bad backend", func(c *Config) { c.Store.Backend = "redis" }, "unsupported store backend"},
		{"bad provider", func(c *Config) { c.Embedding.Provider = "cohere" }, "unsupported embedding provider"},
		{"openai without key", func(c *Config) { c.Embedding.Provider = "openai" }, "openai_api_key"},
		{"overlap too large", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size }, "overlap"},
		{"zero chunk size", func(c *Config) { c.Chunking.Size = 0 }, "chunking size"},
		{"batch too big", func(c *Config) { c.Embedding.BatchSize = 500 }, "batch_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	tests := []struct {
		in   string
		want string
	}{
		{"~/.docrag", filepath.Join(home, ".docrag")},
		{"~", home},
		{"/var/lib/docrag", "/var/lib/docrag"},
		{"relative/path", "relative/path"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteDefaultTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "docrag.yaml")

	created, err := WriteDefaultTemplate(path)
	if err != nil {
		t.Fatalf("WriteDefaultTemplate() error = %v", err)
	}
	if !created {
		t.Error("expected template to be created")
	}

	// second call is a no-op
	created, err = WriteDefaultTemplate(path)
	if err != nil {
		t.Fatalf("WriteDefaultTemplate() second call error = %v", err)
	}
	if created {
		t.Error("expected existing template to be left alone")
	}

	// template must itself be loadable
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("template should load cleanly: %v", err)
	}
	if cfg.Embedding.Provider != "ollama" {
		t.Errorf("template provider = %q, want ollama", cfg.Embedding.Provider)
	}
}
