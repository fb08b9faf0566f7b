package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestPerplexityClient_Complete(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq perplexityRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"choices": [
				{"message": {"role": "assistant", "content": "Acme leads the market."}}
			],
			"citations": ["https://example.com/a", "https://example.com/b"]
		}`)
	}))
	defer srv.Close()

	client := NewPerplexityClient("pplx-key", srv.URL)

	completion, err := client.Complete(context.Background(), "Best widget?", "sonar")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if completion.Text != "Acme leads the market." {
		t.Errorf("unexpected text %q", completion.Text)
	}
	want := []string{"https://example.com/a", "https://example.com/b"}
	if !reflect.DeepEqual(completion.Citations, want) {
		t.Errorf("expected citations %v, got %v", want, completion.Citations)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer pplx-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotReq.Model != "sonar" || gotReq.Temperature != 0 {
		t.Errorf("unexpected request: %+v", gotReq)
	}
}

func TestPerplexityClient_NoCitations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices": [{"message": {"role": "assistant", "content": "answer"}}]}`)
	}))
	defer srv.Close()

	client := NewPerplexityClient("pplx-key", srv.URL)

	completion, err := client.Complete(context.Background(), "prompt", "sonar")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(completion.Citations) != 0 {
		t.Errorf("expected no citations, got %v", completion.Citations)
	}
}

func TestPerplexityClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error": "invalid api key"}`)
	}))
	defer srv.Close()

	client := NewPerplexityClient("bad-key", srv.URL)

	_, err := client.Complete(context.Background(), "prompt", "sonar")
	if err == nil {
		t.Fatal("expected error on 401")
	}

	var adapterErr *AdapterError
	if !errors.As(err, &adapterErr) {
		t.Fatalf("expected *AdapterError, got %T", err)
	}
	if adapterErr.Provider != "perplexity" || adapterErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("unexpected adapter error: %+v", adapterErr)
	}
}

func TestPerplexityClient_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices": []}`)
	}))
	defer srv.Close()

	client := NewPerplexityClient("pplx-key", srv.URL)

	_, err := client.Complete(context.Background(), "prompt", "sonar")
	if err == nil {
		t.Fatal("expected error on empty choices")
	}
}
