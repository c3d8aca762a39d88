// Package embed turns text into embedding vectors. The HTTP provider talks to
// an OpenAI-compatible embeddings endpoint; decorators add caching and a
// circuit breaker. Every failure surfaces as CodeUnavailable so the retriever
// can fail closed instead of aborting the request.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"sellarte/internal/platform/config"
	dErrors "sellarte/pkg/domain-errors"
)

// Provider computes an embedding for one text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

const (
	maxRetries   = 3
	initialDelay = 500 * time.Millisecond
)

// HTTPProvider calls an OpenAI-compatible embeddings API.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewHTTPProvider(cfg config.EmbeddingConfig) *HTTPProvider {
	return &HTTPProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed requests an embedding with retry on transient failures. Rate limits
// and server errors retry with exponential backoff; other client errors do not.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.apiKey == "" {
		return nil, dErrors.New(dErrors.CodeUnavailable, "embedding provider is not configured")
	}

	body, err := json.Marshal(embedRequest{Input: []string{text}, Model: p.model})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "marshal embedding request")
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeUnavailable, "embedding request canceled")
			}
		}

		vector, retryable, err := p.doRequest(ctx, body)
		if err == nil {
			return vector, nil
		}
		lastErr = err
		if !retryable {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "embedding request failed")
		}
	}
	return nil, dErrors.Wrap(lastErr, dErrors.CodeUnavailable, "embedding provider unreachable after retries")
}

func (p *HTTPProvider) doRequest(ctx context.Context, body []byte) (vector []float32, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read embedding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			err = fmt.Errorf("embedding provider returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		} else {
			err = fmt.Errorf("embedding provider returned %d", resp.StatusCode)
		}
		retryable = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, err
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, false, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, false, fmt.Errorf("embedding provider returned no vector")
	}
	return parsed.Data[0].Embedding, false, nil
}
