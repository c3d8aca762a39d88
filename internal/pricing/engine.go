package pricing

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Strategy is a named customization pricing mode. The storefront has two that
// were never reconciled upstream: the full multiplier-based composition used
// by the product page, and a flat ink-only surcharge used by the quick-buy
// widget. The deployment picks one explicitly; they are never merged.
type Strategy interface {
	Name() string
	Price(basePrice int64, stamp *StampInfo, opts *CustomizationOptions, sel Selection) Result
}

const (
	StrategyFull    = "full_customization_pricing"
	StrategyInkOnly = "ink_only_pricing"
)

// NewStrategy resolves a strategy by its configuration key ("full" or
// "ink_only").
func NewStrategy(key string, inkSurcharge int64) (Strategy, error) {
	switch key {
	case "full", StrategyFull:
		return FullStrategy{}, nil
	case "ink_only", StrategyInkOnly:
		return InkOnlyStrategy{Surcharge: inkSurcharge}, nil
	}
	return nil, fmt.Errorf("unknown pricing strategy %q", key)
}

// FullStrategy composes area, text and color surcharges on top of the base
// price.
type FullStrategy struct{}

func (FullStrategy) Name() string { return StrategyFull }

func (FullStrategy) Price(basePrice int64, stamp *StampInfo, opts *CustomizationOptions, sel Selection) Result {
	if opts == nil {
		return baseOnly(basePrice)
	}

	var areaFee int64
	if stamp != nil {
		defaultArea := stamp.DefaultWidth * stamp.DefaultHeight
		extraArea := sel.Width*sel.Height - defaultArea
		// Shrinking below the default area is never a rebate.
		if extraArea > 0 {
			areaFee = int64(math.Round(extraArea * float64(opts.Multipliers.DimensionMultiplier)))
		}
	}

	var textFee int64
	if n := countNonBlank(sel.Lines); n > 1 {
		// The first engraved line is covered by the base price.
		textFee = int64(n-1) * opts.Multipliers.TextMultiplier
	}

	var colorFee int64
	if sel.Color != "" && sel.Color != opts.Colors.DefaultColor {
		colorFee = opts.Multipliers.ColorMultiplier
	}

	fee := areaFee + textFee + colorFee
	return Result{
		BasePrice:        basePrice,
		AreaFee:          areaFee,
		TextFee:          textFee,
		ColorFee:         colorFee,
		CustomizationFee: fee,
		TotalPrice:       basePrice + fee,
	}
}

// InkOnlyStrategy charges a single flat surcharge for any non-default ink
// color and ignores dimensions and text entirely.
type InkOnlyStrategy struct {
	Surcharge int64
}

func (InkOnlyStrategy) Name() string { return StrategyInkOnly }

func (s InkOnlyStrategy) Price(basePrice int64, _ *StampInfo, opts *CustomizationOptions, sel Selection) Result {
	if opts == nil {
		return baseOnly(basePrice)
	}

	var colorFee int64
	if sel.Color != "" && sel.Color != opts.Colors.DefaultColor {
		colorFee = s.Surcharge
	}

	return Result{
		BasePrice:        basePrice,
		ColorFee:         colorFee,
		CustomizationFee: colorFee,
		TotalPrice:       basePrice + colorFee,
	}
}

func baseOnly(basePrice int64) Result {
	return Result{BasePrice: basePrice, TotalPrice: basePrice}
}

func countNonBlank(lines []string) int {
	n := 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// Validate checks a selection against the configured limits. It returns every
// violated rule, not just the first, and never blocks price computation: the
// caller decides whether violations gate a purchase. Messages are customer
// facing.
func Validate(opts *CustomizationOptions, sel Selection) []ValidationError {
	if opts == nil {
		return nil
	}

	var errs []ValidationError
	lim := opts.Dimensions

	if sel.Width < lim.MinWidth || sel.Width > lim.MaxWidth {
		errs = append(errs, ValidationError{
			Field:   "width",
			Message: fmt.Sprintf("el ancho debe estar entre %g y %g %s", lim.MinWidth, lim.MaxWidth, lim.Unit),
		})
	}
	if sel.Height < lim.MinHeight || sel.Height > lim.MaxHeight {
		errs = append(errs, ValidationError{
			Field:   "height",
			Message: fmt.Sprintf("el alto debe estar entre %g y %g %s", lim.MinHeight, lim.MaxHeight, lim.Unit),
		})
	}

	if n := countNonBlank(sel.Lines); opts.Text.MaxLines > 0 && n > opts.Text.MaxLines {
		errs = append(errs, ValidationError{
			Field:   "lines",
			Message: fmt.Sprintf("máximo %d líneas de texto", opts.Text.MaxLines),
		})
	}
	if opts.Text.MaxCharsPerLine > 0 {
		for i, line := range sel.Lines {
			if utf8.RuneCountInString(line) > opts.Text.MaxCharsPerLine {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("lines[%d]", i),
					Message: fmt.Sprintf("máximo %d caracteres por línea", opts.Text.MaxCharsPerLine),
				})
			}
		}
	}

	if sel.Color != "" && len(opts.Colors.Available) > 0 && !contains(opts.Colors.Available, sel.Color) {
		errs = append(errs, ValidationError{
			Field:   "color",
			Message: "color de tinta no disponible",
		})
	}

	return errs
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
