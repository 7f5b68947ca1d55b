package safe

import (
	"errors"
	"math"
)

// ErrOverflow is returned when a signed 64-bit operation would wrap.
var ErrOverflow = errors.New("int64 overflow")

// AddInt64 returns a+b or ErrOverflow.
func AddInt64(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}

	return a + b, nil
}

// MulInt64 returns a*b or ErrOverflow.
func MulInt64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}

	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}

	product := a * b
	if product/b != a {
		return 0, ErrOverflow
	}

	return product, nil
}

// SumInt64 adds values left to right and stops at the first overflow.
func SumInt64(values ...int64) (int64, error) {
	var total int64

	for _, v := range values {
		next, err := AddInt64(total, v)
		if err != nil {
			return 0, err
		}

		total = next
	}

	return total, nil
}
