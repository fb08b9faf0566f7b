package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements the Client interface using Claude's Messages API.
type AnthropicClient struct {
	client *anthropic.Client
}

// NewAnthropicClient creates a Claude-backed adapter. baseURL overrides the
// endpoint for tests; empty means the SDK default.
func NewAnthropicClient(apiKey string, baseURL string) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicClient{client: &client}
}

func (a *AnthropicClient) ProviderName() string { return "anthropic" }

func (a *AnthropicClient) Complete(ctx context.Context, prompt string, model string) (*Completion, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   2048,
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, wrapErr("anthropic", 0, err)
	}

	// Concatenate all text blocks. Claude may interleave other block types;
	// only text carries the answer.
	var sb strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	if sb.Len() == 0 {
		return nil, wrapErr("anthropic", 0, fmt.Errorf("no text content in response"))
	}

	return &Completion{Text: sb.String()}, nil
}
