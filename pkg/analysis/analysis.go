// Package analysis turns a captured image into a natural-language
// explanation by calling a remote multimodal inference endpoint.
//
// Providers implement the Analyzer interface. The Gemini provider is the
// default; an OpenAI-compatible provider is available for endpoints that
// speak the chat-completions dialect. Exactly one outbound request is made
// per Analyze call: no caching, no retries, no streaming.
package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Instruction is the fixed prompt sent with every image.
const Instruction = "Explain the contents of this image. Keep the explanation beginner-friendly and concise."

// FallbackText is returned when the endpoint produces no text. The success
// path never returns an empty string.
const FallbackText = "No explanation generated."

// DefaultMimeType is assumed for images without an explicit mime type.
const DefaultMimeType = "image/jpeg"

// Analyzer generates a text explanation for an encoded image.
type Analyzer interface {
	// Analyze sends the image and the fixed instruction to the inference
	// endpoint and returns the generated text, or FallbackText when the
	// endpoint returns none.
	Analyze(ctx context.Context, image []byte, mimeType string) (string, error)
}

// NormalizeImage accepts either raw encoded image bytes or a base64 data URI
// and returns the raw bytes plus the mime type. The mime type embedded in a
// data URI wins over the fallback.
func NormalizeImage(input []byte, fallbackMime string) ([]byte, string, error) {
	if len(input) == 0 {
		return nil, "", ErrEmptyImage
	}
	if fallbackMime == "" {
		fallbackMime = DefaultMimeType
	}

	s := string(input)
	if !strings.HasPrefix(s, "data:") {
		return input, fallbackMime, nil
	}

	header, payload, ok := strings.Cut(s, ",")
	if !ok || payload == "" {
		return nil, "", fmt.Errorf("%w: malformed data URI", ErrEmptyImage)
	}

	mime := fallbackMime
	meta := strings.TrimPrefix(header, "data:")
	if m, _, found := strings.Cut(meta, ";"); found && m != "" {
		mime = m
	} else if meta != "" {
		mime = meta
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("analysis: decode data URI: %w", err)
	}
	return raw, mime, nil
}
