// Package chat answers storefront questions grounded on retrieved knowledge
// fragments. When nothing relevant is found, the reply points the customer to
// sales instead of letting the model improvise.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sellarte/internal/platform/config"
	dErrors "sellarte/pkg/domain-errors"
)

// Completer produces an assistant reply from a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// HTTPCompleter calls an OpenAI-compatible chat completions API.
type HTTPCompleter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewHTTPCompleter(cfg config.ChatConfig) *HTTPCompleter {
	return &HTTPCompleter{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature float64             `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

func (c *HTTPCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", dErrors.New(dErrors.CodeUnavailable, "completion provider is not configured")
	}

	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []completionMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   512,
		Temperature: 0.3,
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "build completion request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "completion request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "read completion response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", dErrors.Wrap(fmt.Errorf("completion provider returned %d", resp.StatusCode),
			dErrors.CodeUnavailable, "completion request failed")
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "decode completion response")
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", dErrors.New(dErrors.CodeUnavailable, "completion provider returned no reply")
	}
	return parsed.Choices[0].Message.Content, nil
}
