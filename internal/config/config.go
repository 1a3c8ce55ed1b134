package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Store     StoreConfig     `yaml:"store,omitempty"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Chunking  ChunkingConfig  `yaml:"chunking,omitempty"`
	Retrieval RetrievalConfig `yaml:"retrieval,omitempty"`
	Indexer   IndexerConfig   `yaml:"indexer,omitempty"`
	TTS       TTSConfig       `yaml:"tts,omitempty"`
}

// StoreConfig selects the vector store backend and the storage root
type StoreConfig struct {
	Backend string `yaml:"backend"` // "local" | "qdrant"
	Path    string `yaml:"path,omitempty"`

	// Qdrant specific (for the "qdrant" backend)
	QdrantURL    string `yaml:"qdrant_url,omitempty"`
	QdrantAPIKey string `yaml:"qdrant_api_key,omitempty"`
}

// EmbeddingConfig holds embedding service configuration
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "ollama" | "openai"

	// Ollama specific
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`

	// OpenAI specific
	OpenAIBaseURL string `yaml:"openai_base_url,omitempty"`
	OpenAIAPIKey  string `yaml:"openai_api_key,omitempty"`
	OpenAIModel   string `yaml:"openai_model,omitempty"`

	Dimensions int           `yaml:"dimensions"`
	BatchSize  int           `yaml:"batch_size"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
}

// LLMConfig holds language model service configuration
type LLMConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ChunkingConfig controls how documents are split before embedding
type ChunkingConfig struct {
	Size    int `yaml:"size,omitempty"`
	Overlap int `yaml:"overlap,omitempty"`
}

// RetrievalConfig controls how many chunks a query pulls from the index
type RetrievalConfig struct {
	TopK int `yaml:"top_k,omitempty"` // MMR selects TopK out of 3*TopK candidates
}

// IndexerConfig holds indexer-specific configuration
type IndexerConfig struct {
	Exclude           []string `yaml:"exclude,omitempty"` // doublestar patterns
	DefaultCollection string   `yaml:"default_collection,omitempty"`
}

// TTSConfig holds text-to-speech configuration
type TTSConfig struct {
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model,omitempty"`
	Voice    string `yaml:"voice,omitempty"`
	MaxChars int    `yaml:"max_chars,omitempty"`
}

// Load loads configuration from the default config file.
// Default location: ~/.docrag/config/docrag.yaml.
// A missing file is not an error: defaults apply, then DOCRAG_* overrides.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the default config file location
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".docrag", "config", "docrag.yaml"), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = "local"
	}
	if c.Store.Path == "" {
		c.Store.Path = "~/.docrag"
	}
	c.Store.Path = expandPath(c.Store.Path)
	if c.Store.QdrantURL == "" {
		c.Store.QdrantURL = "http://127.0.0.1:6333"
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "ollama"
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = "http://localhost:11434"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "nomic-embed-text"
	}
	if c.Embedding.OpenAIBaseURL == "" {
		c.Embedding.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if c.Embedding.OpenAIModel == "" {
		c.Embedding.OpenAIModel = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions == 0 {
		if c.Embedding.Provider == "openai" {
			c.Embedding.Dimensions = 1536
		} else {
			c.Embedding.Dimensions = 768
		}
	}
	if c.Embedding.BatchSize == 0 {
		c.Embedding.BatchSize = 10
	}
	if c.Embedding.Timeout == 0 {
		c.Embedding.Timeout = 60 * time.Second
	}

	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "http://localhost:11434"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama3.2"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 300 * time.Second
	}

	if c.Chunking.Size == 0 {
		c.Chunking.Size = 1000
	}
	if c.Chunking.Overlap == 0 {
		c.Chunking.Overlap = 200
	}

	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 5
	}

	if c.Indexer.DefaultCollection == "" {
		c.Indexer.DefaultCollection = "default"
	}

	if c.TTS.BaseURL == "" {
		c.TTS.BaseURL = "http://localhost:8880"
	}
	if c.TTS.Model == "" {
		c.TTS.Model = "tts-1"
	}
	if c.TTS.Voice == "" {
		c.TTS.Voice = "alloy"
	}
	if c.TTS.MaxChars == 0 {
		c.TTS.MaxChars = 4000
	}
}

// applyEnv applies DOCRAG_* environment overrides on top of file values
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCRAG_HOME"); v != "" {
		c.Store.Path = expandPath(v)
	}
	if v := os.Getenv("DOCRAG_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("DOCRAG_QDRANT_URL"); v != "" {
		c.Store.QdrantURL = v
	}
	if v := os.Getenv("DOCRAG_EMBED_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("DOCRAG_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("DOCRAG_LLM_URL"); v != "" {
		c.LLM.BaseURL = v
		if os.Getenv("DOCRAG_EMBED_URL") == "" {
			c.Embedding.BaseURL = v
		}
	}
	if v := os.Getenv("DOCRAG_EMBED_URL"); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv("DOCRAG_COLLECTION"); v != "" {
		c.Indexer.DefaultCollection = v
	}
	if v := os.Getenv("DOCRAG_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Chunking.Size = n
		}
	}
	if v := os.Getenv("DOCRAG_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Chunking.Overlap = n
		}
	}
	if v := os.Getenv("DOCRAG_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retrieval.TopK = n
		}
	}
	if v := os.Getenv("DOCRAG_TTS_VOICE"); v != "" {
		c.TTS.Voice = v
	}
	if v := os.Getenv("DOCRAG_TTS_URL"); v != "" {
		c.TTS.BaseURL = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "local":
	case "qdrant":
		if c.Store.QdrantURL == "" {
			return fmt.Errorf("qdrant backend requires qdrant_url")
		}
	default:
		return fmt.Errorf("unsupported store backend: %s", c.Store.Backend)
	}

	switch c.Embedding.Provider {
	case "ollama":
	case "openai":
		if c.Embedding.OpenAIAPIKey == "" {
			return fmt.Errorf("openai provider requires openai_api_key")
		}
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedding.Provider)
	}

	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking size must be positive, got: %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking overlap must satisfy 0 <= overlap < size, got: %d", c.Chunking.Overlap)
	}
	if c.Embedding.BatchSize <= 0 || c.Embedding.BatchSize > 100 {
		return fmt.Errorf("batch_size must be between 1 and 100, got: %d", c.Embedding.BatchSize)
	}
	return nil
}

// expandPath expands ~ and $HOME to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "$HOME/") || path == "$HOME" {
		home := os.Getenv("HOME")
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return path
			}
		}
		if path == "$HOME" {
			return home
		}
		return filepath.Join(home, path[6:])
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

const defaultConfigTemplate = `# docrag configuration
#
# Copy and edit this file for your environment.
# Default location: $HOME/.docrag/config/docrag.yaml
# Most values can also be overridden with DOCRAG_* environment variables.

store:
  # Backend: "local" (self-contained, per-collection SQLite) or "qdrant"
  backend: local
  path: ~/.docrag

  # Qdrant configuration (only used with backend: qdrant)
  # qdrant_url: http://127.0.0.1:6333
  # qdrant_api_key: ""

embedding:
  # Provider: "ollama" or "openai"
  provider: ollama
  base_url: http://localhost:11434
  model: nomic-embed-text
  dimensions: 768
  batch_size: 10

  # OpenAI configuration (alternative)
  # provider: openai
  # openai_api_key: your-openai-api-key
  # openai_model: text-embedding-3-small
  # dimensions: 1536

llm:
  base_url: http://localhost:11434
  model: llama3.2

chunking:
  size: 1000
  overlap: 200

retrieval:
  top_k: 5

tts:
  base_url: http://localhost:8880
  voice: alloy
  max_chars: 4000
`

// WriteDefaultTemplate creates a default configuration file if it does not exist.
// It returns true if a file was created, false if it already existed.
func WriteDefaultTemplate(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return false, fmt.Errorf("write config template: %w", err)
	}
	return true, nil
}
