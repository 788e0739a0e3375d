package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lenscribe/lenscribe/internal/httpc"
)

const (
	// DefaultGeminiModel is the flash multimodal model used for image
	// explanations.
	DefaultGeminiModel = "gemini-2.0-flash"

	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Gemini is an Analyzer backed by the Gemini generateContent API.
type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiConfig configures the Gemini analyzer.
type GeminiConfig struct {
	// APIKey authenticates every request. Required.
	APIKey string

	// Model overrides DefaultGeminiModel.
	Model string

	// BaseURL overrides the production endpoint, mainly for tests.
	BaseURL string

	// HTTPClient overrides the shared client.
	HTTPClient *http.Client
}

// NewGemini creates a Gemini analyzer. Fails fast with ErrMissingAPIKey
// rather than deferring key validation to the first remote call.
func NewGemini(cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpc.Client
	}
	return &Gemini{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
	}, nil
}

// Analyze implements Analyzer with a single generateContent call carrying
// the instruction and the inline image.
func (g *Gemini) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	raw, mime, err := NormalizeImage(image, mimeType)
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": Instruction},
					{
						"inline_data": map[string]string{
							"mime_type": mime,
							"data":      base64.StdEncoding.EncodeToString(raw),
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.4,
			"maxOutputTokens": 512,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("analysis: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("analysis: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrAnalysisFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", NewAPIError(resp.StatusCode, truncate(string(body), 200))
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", ErrAnalysisFailed, err)
	}
	if result.Error.Message != "" {
		return "", NewAPIError(result.Error.Code, result.Error.Message)
	}

	if len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
		if text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text); text != "" {
			return text, nil
		}
	}
	return FallbackText, nil
}

// geminiResponse is the response structure from the Gemini API.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// truncate shortens a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
