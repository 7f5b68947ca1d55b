package dispatch

import (
	"context"
	"fmt"

	"github.com/tokenlayer/lib-txpipeline/txpipeline"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/commitment"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/composer"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/intent"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/payload"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/requirement"
)

// Mint creates one commitment per requested coin and publishes them. Every
// check, including the aggregated amount and the balance, runs before the
// first commitment exists. Commitments are erased, newest first, when
// encoding or composition fails.
func (s *Service) Mint(ctx context.Context, in intent.Mint) (Outcome, error) {
	return s.observe(ctx, intent.OpMint, func(ctx context.Context) (Outcome, error) {
		confirmations := in.MinConfirmations
		if confirmations <= 0 {
			confirmations = s.cfg.DefaultMintConfirmations
		}

		checks := []requirement.Check{
			requirement.ExistingProperty(in.Property),
			requirement.SigmaEnabled(in.Property),
		}

		counts := make([]commitment.DenominationCount, 0, len(in.Units))

		for i, unit := range in.Units {
			d := protocol.DenominationID(unit.Denomination) //nolint:gosec // range checked before use

			checks = append(checks,
				requirement.InRange(fmt.Sprintf("units[%d].denomination", i), unit.Denomination, 0, constant.MaxDenominationID),
				requirement.InRange(fmt.Sprintf("units[%d].count", i), unit.Count, 0, constant.MaxMintCount),
				requirement.DenominationConfirmed(in.Property, d, confirmations),
			)

			counts = append(counts, commitment.DenominationCount{Denomination: d, Count: int(unit.Count)})
		}

		var amount int64

		pend := requirement.NewPendingSnapshot(s.pending)
		pend.Require(in.From, in.Property)

		checks = append(checks, func(ctx context.Context, v ledger.View) error {
			property, ok := v.Property(in.Property)
			if !ok {
				return requirement.ExistingProperty(in.Property)(ctx, v)
			}

			total, err := commitment.SumDenominations(property, counts)
			if err != nil {
				return err
			}

			amount = total

			return requirement.Balance(pend, in.From, in.Property, total)(ctx, v)
		})

		if err := s.validate(ctx, pend, checks...); err != nil {
			return Outcome{}, err
		}

		batch, err := s.commitments.PrepareMint(ctx, in.Property, commitment.ExpandUnits(counts))
		if err != nil {
			return Outcome{}, err
		}

		data, err := s.encode(ctx, payload.SimpleMint{Property: in.Property, Mints: batch.Public()})
		if err != nil {
			batch.Rollback(ctx)

			return Outcome{}, err
		}

		res, err := s.compose(ctx, intent.OpMint, composer.Request{From: in.From, Payload: data})
		if err != nil {
			batch.Rollback(ctx)

			return Outcome{}, err
		}

		if !s.cfg.AutoCommit {
			batch.Keep()

			return s.settle(ctx, res, nil), nil
		}

		batch.Broadcast(ctx, res.TxID)

		return s.settle(ctx, res, &effect{
			address:  in.From,
			txType:   constant.TxTypeSimpleMint,
			property: in.Property,
			amount:   amount,
			subtract: true,
		}), nil
	})
}

// Spend redeems one commitment to in.To using sigma inputs. The reserved
// commitment is released when encoding or composition fails and marked used
// once the transaction is composed, in raw mode too.
func (s *Service) Spend(ctx context.Context, in intent.Spend) (Outcome, error) {
	return s.observe(ctx, intent.OpSpend, func(ctx context.Context) (Outcome, error) {
		d := protocol.DenominationID(in.Denomination) //nolint:gosec // range checked before use

		var value int64

		err := s.validate(ctx, nil,
			requirement.InRange("denomination", in.Denomination, 0, constant.MaxDenominationID),
			requirement.ExistingProperty(in.Property),
			requirement.ExistingDenomination(in.Property, d),
			requirement.SaneReferenceAmount(in.ReferenceAmount, s.cfg.MaxReferenceAmount),
			func(_ context.Context, v ledger.View) error {
				if property, ok := v.Property(in.Property); ok {
					value, _ = property.DenominationValue(d)
				}

				return nil
			},
		)
		if err != nil {
			return Outcome{}, err
		}

		spend, err := s.commitments.PrepareSpend(ctx, in.Property, d)
		if err != nil {
			return Outcome{}, err
		}

		data, err := s.encode(ctx, payload.SimpleSpend{Property: in.Property, Denomination: d, Spend: spend.Spend()})
		if err != nil {
			spend.Abort(ctx)

			return Outcome{}, err
		}

		res, err := s.compose(ctx, intent.OpSpend, composer.Request{
			To:              in.To,
			ReferenceAmount: in.ReferenceAmount,
			Payload:         data,
			InputMode:       composer.InputModeSigma,
		})
		if err != nil {
			spend.Abort(ctx)

			return Outcome{}, err
		}

		if err := spend.Finalize(ctx, res.TxID); err != nil {
			txpipeline.NewLoggerFromContext(ctx).Log(ctx, log.LevelError, "failed to mark commitment used",
				log.TxID(res.TxID), log.String("commitment_id", spend.Spend().CommitmentID), log.Err(err))
		}

		return s.settle(ctx, res, &effect{
			txType:   constant.TxTypeSimpleSpend,
			property: in.Property,
			amount:   value,
		}), nil
	})
}
