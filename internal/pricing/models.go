// Package pricing implements the storefront money math: customization price
// composition, shipping tiers, and display formatting. Everything here is a
// pure computation over inputs; persistence lives in catalog.
package pricing

// StampInfo is the physical baseline of a made-to-order stamp. Customization
// is charged against the default area.
type StampInfo struct {
	DefaultWidth  float64 `json:"default_width"`
	DefaultHeight float64 `json:"default_height"`
	Unit          string  `json:"unit"`
}

// DimensionLimits bound the dimensions a customer may pick.
type DimensionLimits struct {
	MinWidth  float64 `json:"min_width"`
	MaxWidth  float64 `json:"max_width"`
	MinHeight float64 `json:"min_height"`
	MaxHeight float64 `json:"max_height"`
	Unit      string  `json:"unit"`
}

// TextLimits bound the engraved text.
type TextLimits struct {
	MaxLines        int `json:"max_lines"`
	MaxCharsPerLine int `json:"max_chars_per_line"`
}

// ColorOptions lists the available ink colors. The default color carries no
// surcharge.
type ColorOptions struct {
	Available    []string `json:"available"`
	DefaultColor string   `json:"default_color"`
}

// Multipliers are the configured surcharge rates, in whole pesos.
type Multipliers struct {
	// DimensionMultiplier is charged per unit of area above the default.
	DimensionMultiplier int64 `json:"dimension_multiplier"`
	// TextMultiplier is charged per text line after the first.
	TextMultiplier int64 `json:"text_multiplier"`
	// ColorMultiplier is a flat fee for any non-default ink color.
	ColorMultiplier int64 `json:"color_multiplier"`
}

// CustomizationOptions is the full customization configuration of a product.
type CustomizationOptions struct {
	Dimensions  DimensionLimits `json:"dimension_limits"`
	Text        TextLimits      `json:"text_customization"`
	Colors      ColorOptions    `json:"color_options"`
	Multipliers Multipliers     `json:"price_multipliers"`
}

// Selection is what the customer picked. Transient: built per request,
// never persisted.
type Selection struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Lines  []string `json:"lines"`
	Color  string   `json:"color"`
	Font   string   `json:"font,omitempty"`
}

// Result itemizes a computed price. TotalPrice is always BasePrice plus
// CustomizationFee; the fee components are kept so the UI can show a
// breakdown.
type Result struct {
	BasePrice        int64 `json:"base_price"`
	AreaFee          int64 `json:"area_fee"`
	TextFee          int64 `json:"text_fee"`
	ColorFee         int64 `json:"color_fee"`
	CustomizationFee int64 `json:"customization_fee"`
	TotalPrice       int64 `json:"total_price"`
}

// ValidationError describes one violated customization rule. All violations
// are reported together so a form can surface every problem at once.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
