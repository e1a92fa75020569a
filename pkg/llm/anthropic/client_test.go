package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/user/tddguard/pkg/llm"
)

func messageJSON(content string) string {
	return `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514",` +
		`"content":` + content + `,"stop_reason":"end_turn","stop_sequence":null,` +
		`"usage":{"input_tokens":12,"output_tokens":7}}`
}

func TestAskSendsSingleUserMessage(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("expected path /v1/messages, got %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("expected api key test-key, got %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, messageJSON(`[{"type":"text","text":"{\"decision\":null,\"reason\":\"ok\"}"}]`))
	}))
	defer server.Close()

	c := New(&llm.Config{BaseURL: server.URL, APIKey: "test-key", Retry: llm.NoRetry()})
	got, err := c.Ask(context.Background(), "judge this change")
	if err != nil {
		t.Fatal(err)
	}

	if got != `{"decision":null,"reason":"ok"}` {
		t.Errorf("unexpected answer %q", got)
	}
	if body["model"] != DefaultModel {
		t.Errorf("expected model %s, got %v", DefaultModel, body["model"])
	}
	if body["max_tokens"] != float64(DefaultMaxTokens) {
		t.Errorf("expected max_tokens %d, got %v", DefaultMaxTokens, body["max_tokens"])
	}
	messages, _ := body["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if role := messages[0].(map[string]any)["role"]; role != "user" {
		t.Errorf("expected user role, got %v", role)
	}
}

func TestAskFirstTextBlockWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, messageJSON(`[{"type":"text","text":"first"},{"type":"text","text":"second"}]`))
	}))
	defer server.Close()

	got, err := New(&llm.Config{BaseURL: server.URL, Model: "claude-3-5-haiku-latest", Retry: llm.NoRetry()}).Ask(context.Background(), "p")
	if err != nil {
		t.Fatal(err)
	}
	if got != "first" {
		t.Errorf("expected first, got %q", got)
	}
}

func TestAskEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, messageJSON(`[]`))
	}))
	defer server.Close()

	_, err := New(&llm.Config{BaseURL: server.URL, Retry: llm.NoRetry()}).Ask(context.Background(), "p")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestAskAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer server.Close()

	_, err := New(&llm.Config{BaseURL: server.URL, APIKey: "bad", Retry: llm.NoRetry()}).Ask(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "anthropic messages call") {
		t.Errorf("expected wrapped API error, got %v", err)
	}
}

func TestClientIsModelClient(t *testing.T) {
	var _ llm.ModelClient = (*Client)(nil)
}
