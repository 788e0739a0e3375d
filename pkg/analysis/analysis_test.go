package analysis

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
)

func TestNormalizeImage(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	b64 := base64.StdEncoding.EncodeToString(raw)

	t.Run("raw bytes pass through", func(t *testing.T) {
		got, mime, err := NormalizeImage(raw, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != string(raw) {
			t.Error("bytes should pass through unchanged")
		}
		if mime != DefaultMimeType {
			t.Errorf("expected default mime, got %q", mime)
		}
	})

	t.Run("data URI header is stripped", func(t *testing.T) {
		input := []byte("data:image/png;base64," + b64)
		got, mime, err := NormalizeImage(input, "image/jpeg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != string(raw) {
			t.Error("payload should decode to the raw bytes")
		}
		if mime != "image/png" {
			t.Errorf("data URI mime should win, got %q", mime)
		}
	})

	t.Run("explicit mime is kept for raw bytes", func(t *testing.T) {
		_, mime, err := NormalizeImage(raw, "image/webp")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mime != "image/webp" {
			t.Errorf("expected image/webp, got %q", mime)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, _, err := NormalizeImage(nil, "")
		if !errors.Is(err, ErrEmptyImage) {
			t.Errorf("expected ErrEmptyImage, got %v", err)
		}
	})

	t.Run("malformed data URI", func(t *testing.T) {
		_, _, err := NormalizeImage([]byte("data:image/jpeg;base64"), "")
		if !errors.Is(err, ErrEmptyImage) {
			t.Errorf("expected ErrEmptyImage, got %v", err)
		}
	})

	t.Run("invalid base64 payload", func(t *testing.T) {
		_, _, err := NormalizeImage([]byte("data:image/jpeg;base64,!!!"), "")
		if err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestAPIErrorUnwrapsToAnalysisFailed(t *testing.T) {
	err := NewAPIError(503, "upstream unavailable")
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Error("APIError should match ErrAnalysisFailed")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected *APIError")
	}
	if apiErr.StatusCode != 503 {
		t.Errorf("expected status 503, got %d", apiErr.StatusCode)
	}
}

func TestMockAnalyzer(t *testing.T) {
	t.Run("returns configured result", func(t *testing.T) {
		m := NewMock("A cat sitting on a windowsill.")
		got, err := m.Analyze(context.Background(), []byte{1, 2, 3}, DefaultMimeType)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "A cat sitting on a windowsill." {
			t.Errorf("unexpected result %q", got)
		}
		if m.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", m.Calls())
		}
	})

	t.Run("empty result falls back", func(t *testing.T) {
		m := NewMock("")
		got, err := m.Analyze(context.Background(), []byte{1}, DefaultMimeType)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != FallbackText {
			t.Errorf("expected fallback, got %q", got)
		}
	})
}
