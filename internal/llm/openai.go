package llm

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements the Client interface against OpenAI's chat
// completions API. Temperature is pinned to 0 so repeated runs over the same
// prompt drift as little as the vendor allows.
type OpenAIClient struct {
	client *openai.Client
	name   string
}

// NewOpenAIClient creates an adapter for api.openai.com. baseURL overrides
// the endpoint for tests; empty means the SDK default.
func NewOpenAIClient(apiKey string, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		name:   "openai",
	}
}

// NewAzureClient creates an adapter for an Azure OpenAI deployment (the
// Copilot-class variant). Azure auth is endpoint + api-key header rather than
// a bearer token; the SDK's Azure config handles the difference, so both
// variants share one implementation.
func NewAzureClient(endpoint string, apiKey string) *OpenAIClient {
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		name:   "azure",
	}
}

func (c *OpenAIClient) ProviderName() string { return c.name }

func (c *OpenAIClient) Complete(ctx context.Context, prompt string, model string) (*Completion, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		// The SDK's Temperature field carries omitempty, so a literal 0
		// never reaches the wire and the vendor default (1) applies. The
		// smallest nonzero float survives serialization and the vendor
		// treats it as 0.
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return nil, wrapErr(c.name, 0, err)
	}

	if len(resp.Choices) == 0 {
		return nil, wrapErr(c.name, 0, fmt.Errorf("no choices in response"))
	}

	return &Completion{Text: resp.Choices[0].Message.Content}, nil
}
