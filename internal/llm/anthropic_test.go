package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicClient_Complete(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [
				{"type": "text", "text": "Acme is "},
				{"type": "text", "text": "well regarded."}
			],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	client := NewAnthropicClient("test-key", srv.URL)

	completion, err := client.Complete(context.Background(), "Best widget?", "claude-sonnet-4-20250514")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completion.Text != "Acme is well regarded." {
		t.Errorf("expected concatenated text blocks, got %q", completion.Text)
	}

	temp, ok := gotBody["temperature"].(float64)
	if !ok {
		t.Fatal("expected temperature field in request body")
	}
	if temp != 0 {
		t.Errorf("expected temperature 0, got %v", temp)
	}
	if gotBody["max_tokens"].(float64) != 2048 {
		t.Errorf("unexpected max_tokens: %v", gotBody["max_tokens"])
	}
}

func TestAnthropicClient_NoTextContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 10, "output_tokens": 0}
		}`)
	}))
	defer srv.Close()

	client := NewAnthropicClient("test-key", srv.URL)

	_, err := client.Complete(context.Background(), "prompt", "claude-sonnet-4-20250514")
	if err == nil {
		t.Fatal("expected error when no text blocks are returned")
	}
}
