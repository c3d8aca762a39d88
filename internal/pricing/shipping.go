package pricing

import (
	dErrors "sellarte/pkg/domain-errors"
)

// Shipping policy, in whole pesos. Fixed: these thresholds are printed on the
// storefront and are not call-time configuration.
const (
	FreeShippingThreshold int64 = 50000
	ReducedRateThreshold  int64 = 15000
	ReducedRate           int64 = 3500
	DefaultTariff         int64 = 5000
)

// ErrInvalidSubtotal is returned for negative subtotals.
var ErrInvalidSubtotal = dErrors.New(dErrors.CodeInvalidInput, "el subtotal debe ser mayor o igual a 0")

// ComputeShipping maps an order subtotal to its shipping fee. A subtotal of
// exactly 15000 pays the default tariff: the reduced band starts strictly
// above the threshold, and 15000 is a common price point, so the comparison
// must stay strict. Quantity is accepted for call-site compatibility but the
// policy keys on subtotal alone.
func ComputeShipping(subtotal int64, _ int) (int64, error) {
	if subtotal < 0 {
		return 0, ErrInvalidSubtotal
	}
	switch {
	case subtotal >= FreeShippingThreshold:
		return 0, nil
	case subtotal > ReducedRateThreshold:
		return ReducedRate, nil
	default:
		return DefaultTariff, nil
	}
}
