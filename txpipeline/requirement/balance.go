package requirement

import (
	"context"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

// AvailableBalance is the confirmed balance minus outstanding pending amounts.
func AvailableBalance(ctx context.Context, v ledger.View, pending Outstanding, address string, id protocol.PropertyID) (int64, error) {
	balance := v.Balance(address, id)
	if pending == nil {
		return balance, nil
	}

	outstanding, err := pending.Outstanding(ctx, address, id)
	if err != nil {
		return 0, protocol.WalletError("read pending balance", err)
	}

	return balance - outstanding, nil
}

// Balance requires address to hold at least amount of id after pending deductions.
// pending may be nil. A *PendingSnapshot gets the holding registered here, so
// its Load must run after the check is built and before Validate.
func Balance(pending Outstanding, address string, id protocol.PropertyID, amount int64) Check {
	if snap, ok := pending.(*PendingSnapshot); ok && snap != nil {
		snap.Require(address, id)
	}

	return func(ctx context.Context, v ledger.View) error {
		available, err := AvailableBalance(ctx, v, pending, address, id)
		if err != nil {
			return err
		}

		if available < amount {
			divisible := false
			if p, ok := v.Property(id); ok {
				divisible = p.Divisible
			}

			return protocol.Errorf(protocol.KindInsufficientFunds, protocol.ErrorInsufficientBalance,
				"amount", "sender has insufficient balance of property %d: available %s, requested %s",
				id, protocol.FormatAmount(available, divisible), protocol.FormatAmount(amount, divisible))
		}

		return nil
	}
}
