package pending

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/assert"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// Entry is the provisional effect of one broadcast transaction.
type Entry struct {
	TxID     string              `json:"txid"`
	Address  string              `json:"address,omitempty"`
	TxType   constant.TxType     `json:"txType"`
	Property protocol.PropertyID `json:"property"`
	Amount   int64               `json:"amount"`
	// Subtract marks entries that reduce the sender's available balance.
	Subtract   bool      `json:"subtract"`
	RecordedAt time.Time `json:"recordedAt"`
}

// NewEntry validates and builds an entry stamped with the current time.
// Address may be empty for operations without a sending address.
func NewEntry(
	ctx context.Context,
	txid, address string,
	txType constant.TxType,
	property protocol.PropertyID,
	amount int64,
	subtract bool,
) (Entry, error) {
	asserter := assert.New(ctx, nil, "pending", "pending.new_entry")

	txid = strings.TrimSpace(txid)

	if err := asserter.NotEmpty(ctx, txid, "txid is required"); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrTxIDRequired, err)
	}

	if err := asserter.That(ctx, amount >= 0, "amount must not be negative", "amount", amount); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrNegativeAmount, err)
	}

	return Entry{
		TxID:       txid,
		Address:    address,
		TxType:     txType,
		Property:   property,
		Amount:     amount,
		Subtract:   subtract,
		RecordedAt: time.Now().UTC(),
	}, nil
}
