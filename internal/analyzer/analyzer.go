package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog/log"
)

const (
	headerAPIKey = "api-key"
	headerModel  = "x-ms-model-mesh-model-name"
)

type Message struct {
	Role    string `json:"role" jsonschema:"enum=system,enum=user,description=Author of the message"`
	Content string `json:"content" jsonschema:"description=Message text"`
}

type ChatRequest struct {
	Messages []Message `json:"messages" jsonschema:"description=System prompt followed by the submitted clause"`
}

// ErrorEnvelope wraps an upstream error payload for the caller.
type ErrorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type Result struct {
	StatusCode int
	Body       json.RawMessage
}

func (r Result) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Payload is the upstream body when OK, otherwise {"error": <body>}.
func (r Result) Payload() (json.RawMessage, error) {
	if r.OK() {
		return r.Body, nil
	}
	data, err := json.Marshal(ErrorEnvelope{Error: r.Body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal error envelope: %w", err)
	}
	return data, nil
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient uses a pooled cleanhttp client when httpClient is nil.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

func (c *Client) Config() Config {
	return c.cfg
}

// Analyze sends one request upstream. There is no retry.
func (c *Client) Analyze(ctx context.Context, text string) (Result, error) {
	payload, err := json.Marshal(c.buildRequest(text))
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAPIKey, c.cfg.APIKey)
	req.Header.Set(headerModel, c.cfg.Model)

	log.Debug().
		Str("model", c.cfg.Model).
		Int("clauseLength", len(text)).
		Msg("Sending clause to upstream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read upstream response: %w", err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("Upstream responded")

	if resp.StatusCode == http.StatusOK {
		if !json.Valid(body) {
			return Result{}, fmt.Errorf("upstream returned invalid JSON with status %d", resp.StatusCode)
		}
		return Result{StatusCode: resp.StatusCode, Body: body}, nil
	}

	if !json.Valid(body) {
		// keep the envelope valid JSON
		quoted, err := json.Marshal(string(body))
		if err != nil {
			return Result{}, fmt.Errorf("failed to encode upstream error body: %w", err)
		}
		body = quoted
	}

	return Result{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) buildRequest(text string) ChatRequest {
	return ChatRequest{
		Messages: []Message{
			{Role: "system", Content: c.cfg.SystemPrompt},
			{Role: "user", Content: text},
		},
	}
}
