package safe

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrDivisionByZero reports a zero divisor, such as a fee rate with no reference size.
var ErrDivisionByZero = errors.New("division by zero")

// Divide returns numerator/denominator, refusing a zero denominator instead of panicking.
func Divide(numerator, denominator decimal.Decimal) (decimal.Decimal, error) {
	if !denominator.IsZero() {
		return numerator.Div(denominator), nil
	}

	return decimal.Zero, ErrDivisionByZero
}
