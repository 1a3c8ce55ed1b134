package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DreamCats/docrag/internal/config"
)

// ErrUnavailable indicates the generation endpoint could not be reached
var ErrUnavailable = errors.New("llm service unavailable")

// Client talks to an Ollama server's generate API
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// generateRequest is the request format for Ollama's /api/generate
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

// generateResponse is one NDJSON line from /api/generate
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewClient creates a new generation client
func NewClient(cfg *config.LLMConfig) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 300 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Model returns the default model name this client generates with
func (c *Client) Model() string {
	return c.model
}

// GenerateWithModel streams a response for the prompt from the given
// model. Each chunk of generated text is passed to onToken (may be nil) as
// it arrives; the full accumulated text is returned. If ctx is cancelled
// mid-stream the text received so far is returned along with ctx.Err().
// The client's default model is left untouched, so callers can run the
// same prompt against several models side by side.
func (c *Client) GenerateWithModel(ctx context.Context, model, prompt string, onToken func(string)) (string, error) {
	if model == "" {
		return "", fmt.Errorf("model name is empty")
	}

	req := generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: true,
		// Deterministic output so repeated questions get repeatable answers
		Options: generateOptions{Temperature: 0},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnavailable, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		if resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: model %q: %s", ErrUnavailable, model, msg)
		}
		return "", fmt.Errorf("generate API returned status %d: %s", resp.StatusCode, msg)
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk generateResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return sb.String(), fmt.Errorf("failed to parse stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return sb.String(), fmt.Errorf("generation failed: %s", chunk.Error)
		}

		if chunk.Response != "" {
			sb.WriteString(chunk.Response)
			if onToken != nil {
				onToken(chunk.Response)
			}
		}
		if chunk.Done {
			return sb.String(), nil
		}
	}

	if err := scanner.Err(); err != nil {
		// A cancelled context surfaces here as a read error; hand back
		// whatever was generated before the interrupt.
		if ctx.Err() != nil {
			return sb.String(), ctx.Err()
		}
		return sb.String(), fmt.Errorf("failed to read stream: %w", err)
	}

	return sb.String(), nil
}
