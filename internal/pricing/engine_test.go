package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classicStampOptions() *CustomizationOptions {
	return &CustomizationOptions{
		Dimensions: DimensionLimits{
			MinWidth: 20, MaxWidth: 80,
			MinHeight: 10, MaxHeight: 40,
			Unit: "mm",
		},
		Text:   TextLimits{MaxLines: 5, MaxCharsPerLine: 30},
		Colors: ColorOptions{Available: []string{"negro", "azul", "rojo", "verde"}, DefaultColor: "negro"},
		Multipliers: Multipliers{
			DimensionMultiplier: 15,
			TextMultiplier:      2000,
			ColorMultiplier:     3000,
		},
	}
}

func classicStampInfo() *StampInfo {
	return &StampInfo{DefaultWidth: 38, DefaultHeight: 14, Unit: "mm"}
}

func TestFullStrategy_NoOptionsIsPassthrough(t *testing.T) {
	got := FullStrategy{}.Price(15000, classicStampInfo(), nil, Selection{Width: 99, Height: 99})

	assert.Equal(t, int64(15000), got.TotalPrice)
	assert.Zero(t, got.CustomizationFee)
}

func TestFullStrategy_AreaSurcharge(t *testing.T) {
	opts := classicStampOptions()
	stamp := classicStampInfo()

	t.Run("larger dimensions charge only the excess area", func(t *testing.T) {
		// 50x20 = 1000, default 38x14 = 532, excess 468 * 15 = 7020.
		got := FullStrategy{}.Price(15000, stamp, opts, Selection{
			Width: 50, Height: 20,
			Lines: []string{"Ferretería El Martillo"},
			Color: "negro",
		})

		assert.Equal(t, int64(7020), got.AreaFee)
		assert.Equal(t, int64(7020), got.CustomizationFee)
		assert.Equal(t, int64(22020), got.TotalPrice)
	})

	t.Run("shrinking below the default is never a rebate", func(t *testing.T) {
		got := FullStrategy{}.Price(15000, stamp, opts, Selection{Width: 25, Height: 12, Color: "negro"})

		assert.Zero(t, got.AreaFee)
		assert.Equal(t, int64(15000), got.TotalPrice)
	})

	t.Run("exactly the default area is free", func(t *testing.T) {
		got := FullStrategy{}.Price(15000, stamp, opts, Selection{Width: 38, Height: 14, Color: "negro"})

		assert.Zero(t, got.AreaFee)
	})
}

func TestFullStrategy_TextSurcharge(t *testing.T) {
	opts := classicStampOptions()
	stamp := classicStampInfo()
	base := Selection{Width: 38, Height: 14, Color: "negro"}

	t.Run("one line is included in the base price", func(t *testing.T) {
		sel := base
		sel.Lines = []string{"Calle 45 #12-30"}
		got := FullStrategy{}.Price(15000, stamp, opts, sel)
		assert.Zero(t, got.TextFee)
	})

	t.Run("each extra non-blank line is charged", func(t *testing.T) {
		sel := base
		sel.Lines = []string{"Papelería La 80", "NIT 900.123.456", "Tel 310 555 0123"}
		got := FullStrategy{}.Price(15000, stamp, opts, sel)
		assert.Equal(t, int64(2*2000), got.TextFee)
	})

	t.Run("blank lines do not count", func(t *testing.T) {
		sel := base
		sel.Lines = []string{"Papelería La 80", "   ", "", "Tel 310 555 0123"}
		got := FullStrategy{}.Price(15000, stamp, opts, sel)
		assert.Equal(t, int64(2000), got.TextFee)
	})
}

func TestFullStrategy_ColorSurcharge(t *testing.T) {
	opts := classicStampOptions()
	stamp := classicStampInfo()
	base := Selection{Width: 38, Height: 14, Lines: []string{"línea"}}

	t.Run("default color is free", func(t *testing.T) {
		sel := base
		sel.Color = "negro"
		got := FullStrategy{}.Price(15000, stamp, opts, sel)
		assert.Zero(t, got.ColorFee)
	})

	t.Run("any other color pays the flat fee once", func(t *testing.T) {
		sel := base
		sel.Color = "rojo"
		got := FullStrategy{}.Price(15000, stamp, opts, sel)
		assert.Equal(t, int64(3000), got.ColorFee)
	})
}

func TestFullStrategy_TotalIsAlwaysBasePlusFee(t *testing.T) {
	opts := classicStampOptions()
	stamp := classicStampInfo()

	selections := []Selection{
		{Width: 50, Height: 20, Lines: []string{"a", "b", "c"}, Color: "azul"},
		{Width: 20, Height: 10, Color: "negro"},
		{Width: 80, Height: 40, Lines: []string{"a"}, Color: "verde"},
	}
	for _, sel := range selections {
		got := FullStrategy{}.Price(15000, stamp, opts, sel)
		assert.Equal(t, got.BasePrice+got.CustomizationFee, got.TotalPrice)
		assert.GreaterOrEqual(t, got.CustomizationFee, int64(0))
		assert.Equal(t, got.AreaFee+got.TextFee+got.ColorFee, got.CustomizationFee)
	}
}

func TestInkOnlyStrategy(t *testing.T) {
	opts := classicStampOptions()
	s := InkOnlyStrategy{Surcharge: 2500}

	t.Run("ignores area and text entirely", func(t *testing.T) {
		got := s.Price(15000, classicStampInfo(), opts, Selection{
			Width: 80, Height: 40,
			Lines: []string{"a", "b", "c", "d"},
			Color: "negro",
		})
		assert.Equal(t, int64(15000), got.TotalPrice)
	})

	t.Run("charges the flat surcharge for non-default ink", func(t *testing.T) {
		got := s.Price(15000, classicStampInfo(), opts, Selection{Color: "rojo"})
		assert.Equal(t, int64(2500), got.ColorFee)
		assert.Equal(t, int64(17500), got.TotalPrice)
	})
}

func TestNewStrategy(t *testing.T) {
	full, err := NewStrategy("full", 0)
	require.NoError(t, err)
	assert.Equal(t, StrategyFull, full.Name())

	ink, err := NewStrategy("ink_only", 2500)
	require.NoError(t, err)
	assert.Equal(t, StrategyInkOnly, ink.Name())

	_, err = NewStrategy("hybrid", 0)
	require.Error(t, err)
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	opts := classicStampOptions()

	errs := Validate(opts, Selection{
		Width:  5,   // below min
		Height: 100, // above max
		Lines:  []string{"1", "2", "3", "4", "5", "6", "esta línea es demasiado larga para caber en el sello"},
		Color:  "dorado",
	})

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "width")
	assert.Contains(t, fields, "height")
	assert.Contains(t, fields, "lines")
	assert.Contains(t, fields, "lines[6]")
	assert.Contains(t, fields, "color")
	assert.Len(t, errs, 5)
}

func TestValidate_ValidSelection(t *testing.T) {
	errs := Validate(classicStampOptions(), Selection{
		Width: 50, Height: 20,
		Lines: []string{"Papelería La 80"},
		Color: "azul",
	})
	assert.Empty(t, errs)
}

func TestValidate_NilOptions(t *testing.T) {
	assert.Nil(t, Validate(nil, Selection{Width: -1}))
}
