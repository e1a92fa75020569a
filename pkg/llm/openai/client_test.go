package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/tddguard/pkg/llm"
)

func reply(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 5,
			"total_tokens":      15,
		},
	}
	json.NewEncoder(w).Encode(resp)
}

func TestOpenAIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("missing or invalid auth header")
		}
		reply(w, "test response")
	}))
	defer server.Close()

	config := &llm.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
	}
	client := New(config)

	resp, err := client.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hello"}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "test response" {
		t.Errorf("expected 'test response', got %s", resp.Content)
	}
	if resp.Usage.InputTokens != 10 {
		t.Errorf("expected 10 input tokens, got %d", resp.Usage.InputTokens)
	}
	if resp.Usage.OutputTokens != 5 {
		t.Errorf("expected 5 output tokens, got %d", resp.Usage.OutputTokens)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("expected 15 total tokens, got %d", resp.Usage.TotalTokens)
	}
}

func TestOpenAIClientRequestFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// base_url includes /v1, client appends /chat/completions
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("expected path '/v1/chat/completions', got %q", r.URL.Path)
		}

		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type 'application/json', got %q", r.Header.Get("Content-Type"))
		}

		body, _ := io.ReadAll(r.Body)
		var reqBody map[string]any
		json.Unmarshal(body, &reqBody)

		if reqBody["model"] != "gpt-4" {
			t.Errorf("expected model 'gpt-4', got %v", reqBody["model"])
		}
		if reqBody["max_tokens"] != float64(1024) {
			t.Errorf("expected max_tokens 1024, got %v", reqBody["max_tokens"])
		}

		messages, ok := reqBody["messages"].([]any)
		if !ok || len(messages) != 1 {
			t.Fatalf("expected 1 message, got %v", reqBody["messages"])
		}
		msg := messages[0].(map[string]any)
		if msg["role"] != "user" || msg["content"] != "validate this" {
			t.Errorf("unexpected message %v", msg)
		}

		reply(w, "ok")
	}))
	defer server.Close()

	config := &llm.Config{
		BaseURL:   server.URL + "/v1/",
		APIKey:    "key",
		Model:     "gpt-4",
		MaxTokens: 1024,
	}

	got, err := New(config).Ask(context.Background(), "validate this")
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" {
		t.Errorf("expected 'ok', got %q", got)
	}
}

func TestOpenAIClientAPIError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	config := &llm.Config{
		BaseURL: server.URL,
		APIKey:  "bad-key",
		Model:   "gpt-4",
	}

	_, err := New(config).Ask(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if calls.Load() != 1 {
		t.Errorf("expected no retry on 401, got %d calls", calls.Load())
	}
}

func TestOpenAIClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		reply(w, "recovered")
	}))
	defer server.Close()

	config := &llm.Config{
		BaseURL: server.URL,
		Model:   "gpt-4",
		Retry:   &llm.RetryPolicy{MaxAttempts: 2, InitialDelay: time.Millisecond, Multiplier: 1},
	}

	got, err := New(config).Ask(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if got != "recovered" {
		t.Errorf("expected 'recovered', got %q", got)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestOpenAIClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	config := &llm.Config{BaseURL: server.URL, Model: "gpt-4", Retry: llm.NoRetry()}
	if _, err := New(config).Ask(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestOpenAIClientModelClientInterface(t *testing.T) {
	// Verify Client satisfies the llm.ModelClient interface at compile time.
	var _ llm.ModelClient = (*Client)(nil)
}
