package feepolicy

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/safe"
)

const bytesPerKilobyte = 1000

// Rate is a fee of Fee base units quoted against Size virtual bytes.
type Rate struct {
	Fee  int64
	Size int
}

// IsZero reports whether the rate carries no fee.
func (r Rate) IsZero() bool {
	return r.Fee == 0
}

// PerKilobyte returns the rate normalised to 1000 bytes, truncated to base units.
// A zero Size is treated as a per-kilobyte quote.
func (r Rate) PerKilobyte() int64 {
	if r.Size == 0 {
		return r.Fee
	}

	perByte, err := safe.Divide(decimal.NewFromInt(r.Fee), decimal.NewFromInt(int64(r.Size)))
	if err != nil {
		return r.Fee
	}

	return perByte.Mul(decimal.NewFromInt(bytesPerKilobyte)).Truncate(0).IntPart()
}

// FeeFor returns the fee for a transaction of size bytes, truncated to base units.
func (r Rate) FeeFor(size int) int64 {
	return decimal.NewFromInt(r.PerKilobyte()).
		Mul(decimal.NewFromInt(int64(size))).
		Div(decimal.NewFromInt(bytesPerKilobyte)).
		Truncate(0).
		IntPart()
}

// String renders the rate per kilobyte.
func (r Rate) String() string {
	return fmt.Sprintf("%d/kB", r.PerKilobyte())
}
