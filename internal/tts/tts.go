package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/DreamCats/docrag/internal/config"
)

// ErrUnavailable indicates the speech endpoint could not be reached
var ErrUnavailable = errors.New("tts service unavailable")

// ErrNoPlayer indicates no audio player binary was found on PATH
var ErrNoPlayer = errors.New("no audio player found (need afplay, ffplay or mpv)")

// players are tried in order; the first one on PATH wins
var players = [][]string{
	{"afplay"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"mpv", "--no-video", "--really-quiet"},
}

// Service synthesizes speech through an OpenAI-compatible audio API
// and plays the result with a local player.
type Service struct {
	baseURL  string
	model    string
	voice    string
	maxChars int
	client   *http.Client
}

// speechRequest is the request format for /v1/audio/speech
type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// NewService creates a new text-to-speech service
func NewService(cfg *config.TTSConfig) *Service {
	return &Service{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		model:    cfg.Model,
		voice:    cfg.Voice,
		maxChars: cfg.MaxChars,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Synthesize converts text to MP3 audio bytes
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to speak")
	}
	text = truncate(text, s.maxChars)

	req := speechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: "mp3",
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		s.baseURL+"/v1/audio/speech", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("speech API returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech API returned empty audio")
	}
	return audio, nil
}

// Speak synthesizes text and plays it through the first available player
func (s *Service) Speak(ctx context.Context, text string) error {
	audio, err := s.Synthesize(ctx, text)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "docrag-*.mp3")
	if err != nil {
		return fmt.Errorf("failed to create temp audio file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}

	return play(ctx, path)
}

// SaveTo synthesizes text and writes the audio to path
func (s *Service) SaveTo(ctx context.Context, text, path string) error {
	audio, err := s.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return os.WriteFile(path, audio, 0o644)
}

func play(ctx context.Context, path string) error {
	for _, candidate := range players {
		bin, err := exec.LookPath(candidate[0])
		if err != nil {
			continue
		}
		args := append(append([]string{}, candidate[1:]...), path)
		cmd := exec.CommandContext(ctx, bin, args...)
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%s failed: %w", candidate[0], err)
		}
		return nil
	}
	return ErrNoPlayer
}

// truncate cuts text to at most max runes, preferring a sentence boundary
func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if i := strings.LastIndexAny(cut, ".!?"); i > max/2 {
		return cut[:i+1]
	}
	return cut
}
