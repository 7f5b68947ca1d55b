package protocol

import "github.com/shopspring/decimal"

const divisibleExponent = -8

// FormatAmount renders base units for humans: eight decimals for divisible
// properties, a plain integer otherwise.
func FormatAmount(amount int64, divisible bool) string {
	if !divisible {
		return decimal.NewFromInt(amount).String()
	}

	return decimal.New(amount, divisibleExponent).StringFixed(-divisibleExponent)
}

// ParseAmount is the inverse of FormatAmount. Fractions beyond the property's
// precision are rejected.
func ParseAmount(text string, divisible bool) (int64, error) {
	value, err := decimal.NewFromString(text)
	if err != nil {
		return 0, Errorf(KindInvalidParameter, ErrorInvalidAmount, "amount", "invalid amount %q", text)
	}

	exp := int32(0)
	if divisible {
		exp = -divisibleExponent
	}

	scaled := value.Shift(exp)
	if !scaled.IsInteger() {
		return 0, Errorf(KindInvalidParameter, ErrorInvalidAmount, "amount", "amount %q exceeds property precision", text)
	}

	if scaled.GreaterThan(decimal.NewFromInt(maxInt64)) || scaled.IsNegative() {
		return 0, Errorf(KindInvalidParameter, ErrorInvalidAmount, "amount", "amount %q out of range", text)
	}

	return scaled.IntPart(), nil
}

const maxInt64 = 1<<63 - 1
