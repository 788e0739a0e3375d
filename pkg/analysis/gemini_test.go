package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewGemini(t *testing.T) {
	t.Run("missing key is rejected at construction", func(t *testing.T) {
		_, err := NewGemini(GeminiConfig{})
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("defaults are applied", func(t *testing.T) {
		g, err := NewGemini(GeminiConfig{APIKey: "test-key"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.model != DefaultGeminiModel {
			t.Errorf("expected default model, got %q", g.model)
		}
	})
}

// geminiTestServer returns a server and an analyzer pointed at it.
func geminiTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Gemini) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGemini(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("new gemini: %v", err)
	}
	return srv, g
}

func TestGeminiAnalyze(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}

	t.Run("success returns the generated text", func(t *testing.T) {
		var gotPath string
		var gotBody map[string]any

		_, g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotBody)
			json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{
						{"text": "A cat sitting on a windowsill."},
					}}},
				},
			})
		})

		got, err := g.Analyze(context.Background(), image, DefaultMimeType)
		if err != nil {
			t.Fatalf("analyze failed: %v", err)
		}
		if got != "A cat sitting on a windowsill." {
			t.Errorf("unexpected text %q", got)
		}
		if !strings.Contains(gotPath, "gemini-2.0-flash:generateContent") {
			t.Errorf("unexpected path %q", gotPath)
		}

		// Request must carry the instruction part followed by the image part.
		contents := gotBody["contents"].([]any)
		parts := contents[0].(map[string]any)["parts"].([]any)
		if len(parts) != 2 {
			t.Fatalf("expected 2 parts, got %d", len(parts))
		}
		if parts[0].(map[string]any)["text"] != Instruction {
			t.Error("first part must be the fixed instruction")
		}
		inline := parts[1].(map[string]any)["inline_data"].(map[string]any)
		if inline["mime_type"] != "image/jpeg" {
			t.Errorf("unexpected mime type %v", inline["mime_type"])
		}
		if inline["data"] == "" {
			t.Error("image data must not be empty")
		}
	})

	t.Run("empty candidates return the fallback literal", func(t *testing.T) {
		_, g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
		})

		got, err := g.Analyze(context.Background(), image, DefaultMimeType)
		if err != nil {
			t.Fatalf("analyze failed: %v", err)
		}
		if got != FallbackText {
			t.Errorf("expected %q, got %q", FallbackText, got)
		}
	})

	t.Run("blank candidate text returns the fallback literal", func(t *testing.T) {
		_, g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{
						{"text": "   "},
					}}},
				},
			})
		})

		got, err := g.Analyze(context.Background(), image, DefaultMimeType)
		if err != nil {
			t.Fatalf("analyze failed: %v", err)
		}
		if got != FallbackText {
			t.Errorf("expected %q, got %q", FallbackText, got)
		}
	})

	t.Run("service error maps to ErrAnalysisFailed", func(t *testing.T) {
		_, g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := g.Analyze(context.Background(), image, DefaultMimeType)
		if !errors.Is(err, ErrAnalysisFailed) {
			t.Errorf("expected ErrAnalysisFailed, got %v", err)
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected APIError with status 500, got %v", err)
		}
	})

	t.Run("transport failure maps to ErrAnalysisFailed", func(t *testing.T) {
		srv, g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
		srv.Close()

		_, err := g.Analyze(context.Background(), image, DefaultMimeType)
		if !errors.Is(err, ErrAnalysisFailed) {
			t.Errorf("expected ErrAnalysisFailed, got %v", err)
		}
	})

	t.Run("empty image never reaches the network", func(t *testing.T) {
		called := false
		_, g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := g.Analyze(context.Background(), nil, DefaultMimeType)
		if !errors.Is(err, ErrEmptyImage) {
			t.Errorf("expected ErrEmptyImage, got %v", err)
		}
		if called {
			t.Error("no request should be made for an empty image")
		}
	})
}
