package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PaymentLinkProvider issues a hosted payment URL for an amount.
type PaymentLinkProvider interface {
	Name() string
	CreateLink(ctx context.Context, reference string, amount int64) (string, error)
}

// MockProvider issues local, non-chargeable links. It is the provider for any
// deployment without payment credentials.
type MockProvider struct{}

func (MockProvider) Name() string { return "mock" }

func (MockProvider) CreateLink(_ context.Context, reference string, amount int64) (string, error) {
	return fmt.Sprintf("https://pay.sellarte.local/%s/%d/%s", reference, amount, uuid.NewString()), nil
}

// HTTPProvider calls a real payment gateway's link-creation endpoint.
type HTTPProvider struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPProvider(baseURL, token string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (*HTTPProvider) Name() string { return "gateway" }

type linkRequest struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

type linkResponse struct {
	URL string `json:"url"`
}

func (p *HTTPProvider) CreateLink(ctx context.Context, reference string, amount int64) (string, error) {
	body, err := json.Marshal(linkRequest{Reference: reference, Amount: amount, Currency: "COP"})
	if err != nil {
		return "", fmt.Errorf("marshal payment link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build payment link request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment link request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read payment link response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment gateway returned %d", resp.StatusCode)
	}

	var parsed linkResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode payment link response: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("payment gateway returned no url")
	}
	return parsed.URL, nil
}

// NewProvider picks the gateway when credentials are configured, the mock
// otherwise.
func NewProvider(baseURL, token string) PaymentLinkProvider {
	if baseURL != "" && token != "" {
		return NewHTTPProvider(baseURL, token)
	}
	return MockProvider{}
}
