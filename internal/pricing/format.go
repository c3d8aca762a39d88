package pricing

import (
	"math"
	"strconv"

	dErrors "sellarte/pkg/domain-errors"
)

// ErrInvalidAmount is returned when a non-finite amount reaches the formatter.
var ErrInvalidAmount = dErrors.New(dErrors.CodeInvalidInput, "el monto debe ser un número finito")

// FormatPrice renders an amount as Colombian pesos: rounded to the whole
// peso, thousands grouped with '.', '$' prefix. "$15.000".
func FormatPrice(amount float64) (string, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", ErrInvalidAmount
	}
	return FormatPesos(int64(math.Round(amount))), nil
}

// FormatPesos renders a whole-peso amount. Negative values keep the sign in
// front of the symbol.
func FormatPesos(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}
	return sign + "$" + string(grouped)
}
