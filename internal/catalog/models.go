// Package catalog owns the product repository and the price preview that
// composes customization pricing with wholesale resolution.
package catalog

import (
	"time"

	"sellarte/internal/pricing"
	id "sellarte/pkg/domain"
)

// Product is a catalog entry. Prices are whole pesos. Stamp and Customization
// are optional: a product without them prices at its base price, always.
type Product struct {
	ID            id.ProductID                  `json:"id"`
	Name          string                        `json:"name"`
	RetailPrice   int64                         `json:"retail_price"`
	Stamp         *pricing.StampInfo            `json:"stamp_info,omitempty"`
	Customization *pricing.CustomizationOptions `json:"customization_options,omitempty"`
	CreatedAt     time.Time                     `json:"created_at"`
	UpdatedAt     time.Time                     `json:"updated_at"`
}
