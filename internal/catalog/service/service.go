// Package service exposes catalog reads and the price preview operation that
// the product page and quick-buy widget call on every option change.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sellarte/internal/catalog"
	"sellarte/internal/pricing"
	"sellarte/internal/wholesale"
	id "sellarte/pkg/domain"
	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/sentinel"
)

// Store is what the service needs from persistence.
type Store interface {
	Create(ctx context.Context, product *catalog.Product) error
	Get(ctx context.Context, productID id.ProductID) (*catalog.Product, error)
	List(ctx context.Context) ([]*catalog.Product, error)
	Update(ctx context.Context, product *catalog.Product) error
}

// PriceResolver resolves wholesale pricing for an optional account email.
type PriceResolver interface {
	PriceFor(ctx context.Context, email string, retailPrice int64) (wholesale.Pricing, error)
}

// Preview is everything the storefront needs to render a price: the itemized
// customization result, any limit violations, and the wholesale-resolved
// final amount, preformatted.
type Preview struct {
	ProductID      id.ProductID              `json:"product_id"`
	Strategy       string                    `json:"strategy"`
	Result         pricing.Result            `json:"result"`
	Violations     []pricing.ValidationError `json:"violations,omitempty"`
	Wholesale      wholesale.Pricing         `json:"wholesale"`
	FormattedTotal string                    `json:"formatted_total"`
	FormattedFinal string                    `json:"formatted_final"`
}

type Service struct {
	store    Store
	strategy pricing.Strategy
	resolver PriceResolver
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPriceResolver(resolver PriceResolver) Option {
	return func(s *Service) { s.resolver = resolver }
}

func New(store Store, strategy pricing.Strategy, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if strategy == nil {
		return nil, fmt.Errorf("pricing strategy is required")
	}
	svc := &Service{store: store, strategy: strategy, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create registers a product.
func (s *Service) Create(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "el nombre del producto es requerido")
	}
	if product.RetailPrice < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "el precio debe ser no negativo")
	}

	if product.ID.IsNil() {
		product.ID = id.NewProductID()
	}
	product.Name = strings.TrimSpace(product.Name)
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt

	if err := s.store.Create(ctx, product); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeValidation, "el producto ya existe")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create product")
	}
	return product, nil
}

func (s *Service) Get(ctx context.Context, productID id.ProductID) (*catalog.Product, error) {
	product, err := s.store.Get(ctx, productID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "producto no encontrado")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load product")
	}
	return product, nil
}

func (s *Service) List(ctx context.Context) ([]*catalog.Product, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return products, nil
}

// Preview prices a customization selection. It always renders: when the
// selection violates the configured limits, the violations are reported and
// the amounts fall back to the base price so the page never shows a charge
// the customer cannot complete.
func (s *Service) Preview(ctx context.Context, productID id.ProductID, sel pricing.Selection, email string) (Preview, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return Preview{}, err
	}

	violations := pricing.Validate(product.Customization, sel)
	var result pricing.Result
	if len(violations) == 0 {
		result = s.strategy.Price(product.RetailPrice, product.Stamp, product.Customization, sel)
	} else {
		result = s.strategy.Price(product.RetailPrice, product.Stamp, nil, sel)
	}

	resolved := wholesale.Resolve(nil, result.TotalPrice)
	if s.resolver != nil && email != "" {
		resolved, err = s.resolver.PriceFor(ctx, email, result.TotalPrice)
		if err != nil {
			// Wholesale lookup failure never blocks a preview.
			s.logger.WarnContext(ctx, "wholesale resolution failed, using retail", "error", err)
			resolved = wholesale.Resolve(nil, result.TotalPrice)
		}
	}

	return Preview{
		ProductID:      product.ID,
		Strategy:       s.strategy.Name(),
		Result:         result,
		Violations:     violations,
		Wholesale:      resolved,
		FormattedTotal: pricing.FormatPesos(result.TotalPrice),
		FormattedFinal: pricing.FormatPesos(resolved.FinalPrice),
	}, nil
}
