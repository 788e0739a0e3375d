package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is the default vision-capable chat model.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI is an Analyzer for endpoints speaking the OpenAI chat-completions
// dialect. The image travels as a base64 data URI content part.
type OpenAI struct {
	client *openai.Client
	model  string
}

// OpenAIConfig configures the OpenAI-compatible analyzer.
type OpenAIConfig struct {
	// APIKey authenticates every request. Required.
	APIKey string

	// Model overrides DefaultOpenAIModel.
	Model string

	// BaseURL points at an alternative OpenAI-compatible endpoint.
	BaseURL string
}

// NewOpenAI creates an OpenAI-compatible analyzer. Fails fast with
// ErrMissingAPIKey when no key is configured.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Analyze implements Analyzer with a single non-streaming chat completion.
func (o *OpenAI) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	raw, mime, err := NormalizeImage(image, mimeType)
	if err != nil {
		return "", err
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: Instruction,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURI,
						},
					},
				},
			},
		},
		MaxTokens: 512,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	if len(resp.Choices) > 0 {
		if text := strings.TrimSpace(resp.Choices[0].Message.Content); text != "" {
			return text, nil
		}
	}
	return FallbackText, nil
}
