package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/ricardonunez-io/clausecat/internal/config"
)

func newUpstream(t *testing.T, status int, body string, check func(*http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func jsonEqual(t *testing.T, got []byte, want string) {
	t.Helper()
	var g, w any
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("got invalid JSON %q: %v", got, err)
	}
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("want invalid JSON %q: %v", want, err)
	}
	if !reflect.DeepEqual(g, w) {
		t.Errorf("body: got %s, want %s", got, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("key", "https://example.com")
	if cfg.Model != "Mistral-small" {
		t.Errorf("Model: got %q, want Mistral-small", cfg.Model)
	}
	if cfg.SystemPrompt != "You are a legal assistant that analyzes contract clauses." {
		t.Errorf("SystemPrompt: got %q", cfg.SystemPrompt)
	}
}

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{
		APIKey:       "key",
		Endpoint:     "https://example.com",
		Model:        "other-model",
		SystemPrompt: "other prompt",
	}
	cfg := FromAppConfig(app)
	want := Config{APIKey: "key", Endpoint: "https://example.com", Model: "other-model", SystemPrompt: "other prompt"}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestAnalyze_RequestShape(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK, `{"choices": []}`, func(r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type: got %q", got)
		}
		if got := r.Header.Get("api-key"); got != "test-key" {
			t.Errorf("api-key: got %q, want test-key", got)
		}
		if got := r.Header.Get("x-ms-model-mesh-model-name"); got != "Mistral-small" {
			t.Errorf("model header: got %q, want Mistral-small", got)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		want := ChatRequest{Messages: []Message{
			{Role: "system", Content: config.DefaultSystemPrompt},
			{Role: "user", Content: "Termination clause"},
		}}
		if !reflect.DeepEqual(req, want) {
			t.Errorf("request body: got %+v, want %+v", req, want)
		}
	})

	client := NewClient(DefaultConfig("test-key", upstream.URL), nil)
	if _, err := client.Analyze(context.Background(), "Termination clause"); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
}

func TestAnalyze_SuccessVerbatim(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK, `{"choices": []}`, nil)

	client := NewClient(DefaultConfig("test-key", upstream.URL), upstream.Client())
	result, err := client.Analyze(context.Background(), "Termination clause")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("result should be OK, status %d", result.StatusCode)
	}

	payload, err := result.Payload()
	if err != nil {
		t.Fatalf("Payload returned error: %v", err)
	}
	if string(payload) != `{"choices": []}` {
		t.Errorf("payload: got %s, want verbatim upstream body", payload)
	}
}

func TestAnalyze_UpstreamErrorEnvelope(t *testing.T) {
	upstream := newUpstream(t, http.StatusUnauthorized, `{"message": "bad key"}`, nil)

	client := NewClient(DefaultConfig("wrong", upstream.URL), nil)
	result, err := client.Analyze(context.Background(), "Indemnity clause")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.OK() {
		t.Fatal("result should not be OK")
	}
	if result.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", result.StatusCode)
	}

	payload, err := result.Payload()
	if err != nil {
		t.Fatalf("Payload returned error: %v", err)
	}
	jsonEqual(t, payload, `{"error": {"message": "bad key"}}`)
}

func TestAnalyze_UpstreamErrorNotJSON(t *testing.T) {
	upstream := newUpstream(t, http.StatusBadGateway, `<html>gateway down</html>`, nil)

	client := NewClient(DefaultConfig("key", upstream.URL), nil)
	result, err := client.Analyze(context.Background(), "clause")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	payload, err := result.Payload()
	if err != nil {
		t.Fatalf("Payload returned error: %v", err)
	}
	jsonEqual(t, payload, `{"error": "<html>gateway down</html>"}`)
}

func TestAnalyze_SuccessNotJSON(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK, `not json`, nil)

	client := NewClient(DefaultConfig("key", upstream.URL), nil)
	if _, err := client.Analyze(context.Background(), "clause"); err == nil {
		t.Error("expected error for invalid JSON on 200")
	}
}

func TestAnalyze_Unreachable(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK, `{}`, nil)
	url := upstream.URL
	upstream.Close()

	client := NewClient(DefaultConfig("key", url), nil)
	if _, err := client.Analyze(context.Background(), "clause"); err == nil {
		t.Error("expected error for unreachable upstream")
	}
}

func TestRequestSchema(t *testing.T) {
	s := RequestSchema()

	props, ok := s["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema should have properties: %v", s)
	}
	if _, ok := props["messages"]; !ok {
		t.Error("schema should describe messages")
	}
	if s["additionalProperties"] != false {
		t.Errorf("additionalProperties: got %v, want false", s["additionalProperties"])
	}
}
