package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// PerplexityClient implements the Client interface against Perplexity's
// OpenAI-compatible chat completions endpoint. Perplexity is the one vendor
// in our set that returns source URLs: the `citations` array rides alongside
// the answer and is surfaced on the Completion.
type PerplexityClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

const perplexityDefaultBaseURL = "https://api.perplexity.ai"

// NewPerplexityClient creates a Perplexity adapter. baseURL overrides the
// endpoint for tests; empty means the public API.
func NewPerplexityClient(apiKey string, baseURL string) *PerplexityClient {
	if baseURL == "" {
		baseURL = perplexityDefaultBaseURL
	}
	return &PerplexityClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (p *PerplexityClient) ProviderName() string { return "perplexity" }

type perplexityRequest struct {
	Model       string              `json:"model"`
	Messages    []perplexityMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityResponse struct {
	Choices []struct {
		Message perplexityMessage `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

func (p *PerplexityClient) Complete(ctx context.Context, prompt string, model string) (*Completion, error) {
	body, err := json.Marshal(perplexityRequest{
		Model: model,
		Messages: []perplexityMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, wrapErr("perplexity", 0, fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, wrapErr("perplexity", 0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, wrapErr("perplexity", 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, wrapErr("perplexity", resp.StatusCode, fmt.Errorf("reading body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wrapErr("perplexity", resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(data))))
	}

	var out perplexityResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, wrapErr("perplexity", resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}

	if len(out.Choices) == 0 {
		return nil, wrapErr("perplexity", resp.StatusCode, fmt.Errorf("no choices in response"))
	}

	return &Completion{
		Text:      out.Choices[0].Message.Content,
		Citations: out.Citations,
	}, nil
}
