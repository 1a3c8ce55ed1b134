package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DreamCats/docrag/internal/config"
)

func newTestService(url string) *Service {
	return NewService(&config.TTSConfig{
		BaseURL:  url,
		Model:    "tts-1",
		Voice:    "alloy",
		MaxChars: 4000,
	})
}

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req speechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Voice != "alloy" {
			t.Errorf("voice = %q", req.Voice)
		}
		if req.Input != "hello world" {
			t.Errorf("input = %q", req.Input)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	audio, err := newTestService(srv.URL).Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
}

func TestSynthesizeUnavailable(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	_, err := newTestService(srv.URL).Synthesize(context.Background(), "hello")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error should wrap ErrUnavailable, got: %v", err)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	_, err := newTestService("http://localhost:1").Synthesize(context.Background(), "   ")
	if err == nil {
		t.Error("expected error for blank text")
	}
}

func TestSynthesizeVoiceAndLimitFromConfig(t *testing.T) {
	var seen speechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&seen)
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	svc := NewService(&config.TTSConfig{
		BaseURL:  srv.URL,
		Model:    "tts-1",
		Voice:    "nova",
		MaxChars: 10,
	})
	if _, err := svc.Synthesize(context.Background(), strings.Repeat("x", 40)); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if seen.Voice != "nova" {
		t.Errorf("voice = %q, want nova", seen.Voice)
	}
	if len(seen.Input) != 10 {
		t.Errorf("input length = %d, want truncated to 10", len(seen.Input))
	}
}

func TestSaveTo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out", "answer.mp3")
	if err := newTestService(srv.URL).SaveTo(context.Background(), "hi", path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved audio: %v", err)
	}
	if string(data) != "audio" {
		t.Errorf("saved audio = %q", data)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short text untouched", "hello", 100, "hello"},
		{"no limit", strings.Repeat("a", 50), 0, strings.Repeat("a", 50)},
		{"hard cut without boundary", strings.Repeat("a", 50), 10, strings.Repeat("a", 10)},
		{"cut at sentence boundary", "First sentence. Second one here padding", 25, "First sentence."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.text, tt.max); got != tt.want {
				t.Errorf("truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}
