package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicModel completes prompts with the Anthropic Messages API.
type AnthropicModel struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicModel(apiKey, model string, maxTokens int) *AnthropicModel {
	return &AnthropicModel{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

func (m *AnthropicModel) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	resp, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(m.model),
		MaxTokens:   m.maxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("anthropic response empty content")
	}
	return out, nil
}
