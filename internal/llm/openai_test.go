package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIClient_Complete(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "Acme leads."}, "finish_reason": "stop"}
			]
		}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test", srv.URL)

	completion, err := client.Complete(context.Background(), "Best widget?", "gpt-4o")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completion.Text != "Acme leads." {
		t.Errorf("unexpected text %q", completion.Text)
	}

	if gotBody["model"] != "gpt-4o" {
		t.Errorf("unexpected model in request: %v", gotBody["model"])
	}

	// The temperature pin has to survive serialization: the SDK drops a
	// literal 0 via omitempty, so the wire value is the smallest nonzero
	// float, which the vendor rounds down to 0.
	temp, ok := gotBody["temperature"].(float64)
	if !ok {
		t.Fatal("expected temperature field in request body")
	}
	if temp <= 0 || temp > 1e-10 {
		t.Errorf("expected effectively-zero temperature, got %v", temp)
	}
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o", "choices": []}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test", srv.URL)

	_, err := client.Complete(context.Background(), "prompt", "gpt-4o")
	if err == nil {
		t.Fatal("expected error on empty choices")
	}
}
