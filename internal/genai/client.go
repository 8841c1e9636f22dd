// Package genai wraps the Gemini generative-text REST API behind a small
// Generator interface so services and tests never depend on the provider
// directly.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dreamdeck/internal/observability"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
)

// Generator produces free-form text for a prompt using a named model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Client is a Gemini REST API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a new Gemini client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Generate sends the prompt to the given model and returns the first
// candidate's text.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	span, ctx := observability.NewSpan(ctx, "genai.generate")
	defer span.End()
	span.AddAttributes(
		attribute.String("genai.model", model),
		attribute.Int("genai.prompt_chars", len(prompt)),
	)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.SetError(err)
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetError(err)
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = resp.Status
		}
		err := fmt.Errorf("generation request failed: %s", msg)
		span.SetError(err)
		return "", err
	}

	text := gjson.GetBytes(respBody, "candidates.0.content.parts.0.text").String()
	if text == "" {
		err := fmt.Errorf("generation response contained no candidates")
		span.SetError(err)
		return "", err
	}

	span.AddAttributes(attribute.Int("genai.response_chars", len(text)))
	return text, nil
}
