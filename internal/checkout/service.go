// Package checkout computes order totals with the shipping policy and issues
// payment links through a provider port. Without a configured provider the
// mock issues local links, so non-production environments never branch on
// environment variables at call time.
package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"sellarte/internal/pricing"
	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/audit"
)

// Item is one order line. UnitPrice is whole pesos.
type Item struct {
	Name      string `json:"name,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Quote is an order total: subtotal, the shipping fee the policy assigns, and
// display strings for the storefront.
type Quote struct {
	Subtotal          int64  `json:"subtotal"`
	Shipping          int64  `json:"shipping"`
	Total             int64  `json:"total"`
	FormattedSubtotal string `json:"formatted_subtotal"`
	FormattedShipping string `json:"formatted_shipping"`
	FormattedTotal    string `json:"formatted_total"`
}

// PaymentLink is an issued payment URL for a quoted order.
type PaymentLink struct {
	URL      string `json:"url"`
	Provider string `json:"provider"`
	Amount   int64  `json:"amount"`
}

type Service struct {
	provider PaymentLinkProvider
	logger   *slog.Logger
	auditor  audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func New(provider PaymentLinkProvider, opts ...Option) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("payment link provider is required")
	}
	svc := &Service{provider: provider, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// QuoteOrder totals the items and applies the shipping policy.
func (s *Service) QuoteOrder(ctx context.Context, items []Item) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, dErrors.New(dErrors.CodeInvalidInput, "el pedido no tiene productos")
	}

	var subtotal int64
	var quantity int
	for i, item := range items {
		if item.UnitPrice < 0 {
			return Quote{}, dErrors.Newf(dErrors.CodeInvalidInput, "precio inválido en la línea %d", i+1)
		}
		if item.Quantity <= 0 {
			return Quote{}, dErrors.Newf(dErrors.CodeInvalidInput, "cantidad inválida en la línea %d", i+1)
		}
		subtotal += item.UnitPrice * int64(item.Quantity)
		quantity += item.Quantity
	}

	shipping, err := pricing.ComputeShipping(subtotal, quantity)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Subtotal:          subtotal,
		Shipping:          shipping,
		Total:             subtotal + shipping,
		FormattedSubtotal: pricing.FormatPesos(subtotal),
		FormattedShipping: pricing.FormatPesos(shipping),
		FormattedTotal:    pricing.FormatPesos(subtotal + shipping),
	}, nil
}

// CreatePaymentLink quotes the order and asks the provider for a payment URL.
func (s *Service) CreatePaymentLink(ctx context.Context, reference string, items []Item) (PaymentLink, error) {
	if reference == "" {
		return PaymentLink{}, dErrors.New(dErrors.CodeInvalidInput, "la referencia del pedido es requerida")
	}

	quote, err := s.QuoteOrder(ctx, items)
	if err != nil {
		return PaymentLink{}, err
	}

	url, err := s.provider.CreateLink(ctx, reference, quote.Total)
	if err != nil {
		return PaymentLink{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "no se pudo generar el enlace de pago")
	}

	audit.Record(ctx, s.logger, s.auditor, audit.ActionPaymentLinkCreated, "storefront", reference,
		"amount", pricing.FormatPesos(quote.Total), "provider", s.provider.Name())

	return PaymentLink{URL: url, Provider: s.provider.Name(), Amount: quote.Total}, nil
}
