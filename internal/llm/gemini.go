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

// GeminiClient implements the Client interface against the Generative
// Language API's generateContent endpoint. There is no official Go SDK in our
// stack for Gemini, so this adapter speaks the HTTP API directly.
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// NewGeminiClient creates a Gemini adapter. baseURL overrides the endpoint
// for tests; empty means the public API.
func NewGeminiClient(apiKey string, baseURL string) *GeminiClient {
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		// No Timeout on the http.Client — the per-task context deadline
		// set by the scheduler governs the call.
		client: &http.Client{},
	}
}

func (g *GeminiClient) ProviderName() string { return "gemini" }

// Request/response shapes for generateContent. Only the fields we read or
// write are declared.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string, model string) (*Completion, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{Temperature: 0},
	})
	if err != nil {
		return nil, wrapErr("gemini", 0, fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, wrapErr("gemini", 0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, wrapErr("gemini", 0, err)
	}
	defer resp.Body.Close()

	// Limit read to 10MB to guard against unexpectedly large responses.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, wrapErr("gemini", resp.StatusCode, fmt.Errorf("reading body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wrapErr("gemini", resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(data))))
	}

	var out geminiResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, wrapErr("gemini", resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, wrapErr("gemini", resp.StatusCode, fmt.Errorf("no candidates in response"))
	}

	var sb strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return &Completion{Text: sb.String()}, nil
}
