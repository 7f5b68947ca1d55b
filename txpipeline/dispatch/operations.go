package dispatch

import (
	"context"
	"math"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/composer"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/feepolicy"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/intent"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/payload"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/requirement"
)

// SendRaw composes a caller-encoded payload without checks.
func (s *Service) SendRaw(ctx context.Context, in intent.SendRaw) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpSendRaw,
		request: composer.Request{
			From:            in.From,
			To:              in.To,
			Redeem:          in.Redeem,
			ReferenceAmount: in.ReferenceAmount,
			Payload:         in.Payload,
		},
	})
}

func (s *Service) Send(ctx context.Context, in intent.Send) (Outcome, error) {
	pend := requirement.NewPendingSnapshot(s.pending)

	return s.dispatch(ctx, plan{
		operation: intent.OpSend,
		pending:   pend,
		checks: []requirement.Check{
			requirement.PositiveAmount("amount", in.Amount),
			requirement.ExistingProperty(in.Property),
			requirement.Balance(pend, in.From, in.Property, in.Amount),
			requirement.SaneReferenceAmount(in.ReferenceAmount, s.cfg.MaxReferenceAmount),
		},
		params: payload.SimpleSend{Property: in.Property, Amount: in.Amount},
		request: composer.Request{
			From:            in.From,
			To:              in.To,
			Redeem:          in.Redeem,
			ReferenceAmount: in.ReferenceAmount,
		},
		effect: &effect{
			address:  in.From,
			txType:   constant.TxTypeSimpleSend,
			property: in.Property,
			amount:   in.Amount,
			subtract: true,
		},
	})
}

// SendAll records no pending entry: the amounts are only known once the
// transaction is processed.
func (s *Service) SendAll(ctx context.Context, in intent.SendAll) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpSendAll,
		checks: []requirement.Check{
			requirement.ValidEcosystem(in.Ecosystem),
			requirement.SaneReferenceAmount(in.ReferenceAmount, s.cfg.MaxReferenceAmount),
		},
		params: payload.SendAll{Ecosystem: in.Ecosystem},
		request: composer.Request{
			From:            in.From,
			To:              in.To,
			Redeem:          in.Redeem,
			ReferenceAmount: in.ReferenceAmount,
		},
	})
}

func validOfferAction(action constant.OfferAction) requirement.Check {
	return func(context.Context, ledger.View) error {
		if action < constant.OfferActionNew || action > constant.OfferActionCancel {
			return protocol.NewDomainError(protocol.KindInvalidParameter, protocol.ErrorInvalidAction,
				"action", "Invalid action (1,2,3 only)")
		}

		return nil
	}
}

// OfferSell places, updates or cancels a sell offer. Cancels carry zero
// amounts and do not reserve funds.
func (s *Service) OfferSell(ctx context.Context, in intent.OfferSell) (Outcome, error) {
	pend := requirement.NewPendingSnapshot(s.pending)

	params := payload.DExSell{Property: in.Property, Action: in.Action}
	checks := []requirement.Check{validOfferAction(in.Action)}

	if in.Action.ReservesFunds() {
		checks = append(checks,
			requirement.PositiveAmount("amountForSale", in.AmountForSale),
			requirement.PositiveAmount("amountDesired", in.AmountDesired),
			requirement.InRange("paymentWindow", in.PaymentWindow, 1, math.MaxUint8),
			requirement.InRange("minAcceptFee", in.MinAcceptFee, 0, math.MaxInt64),
		)

		params.AmountForSale = in.AmountForSale
		params.AmountDesired = in.AmountDesired
		params.PaymentWindow = uint8(in.PaymentWindow) //nolint:gosec // range checked above
		params.MinAcceptFee = in.MinAcceptFee
	}

	checks = append(checks, requirement.PrimaryToken(in.Property))

	switch in.Action {
	case constant.OfferActionNew:
		checks = append(checks,
			requirement.Balance(pend, in.From, in.Property, in.AmountForSale),
			requirement.NoOtherOffer(in.From, in.Property),
		)
	case constant.OfferActionUpdate:
		checks = append(checks,
			requirement.Balance(pend, in.From, in.Property, in.AmountForSale),
			requirement.MatchingOffer(in.From, in.Property),
		)
	case constant.OfferActionCancel:
		checks = append(checks, requirement.MatchingOffer(in.From, in.Property))
	}

	return s.dispatch(ctx, plan{
		operation: intent.OpOfferSell,
		pending:   pend,
		checks:    checks,
		params:    params,
		request:   composer.Request{From: in.From},
		effect: &effect{
			address:  in.From,
			txType:   constant.TxTypeTradeOffer,
			property: in.Property,
			amount:   params.AmountForSale,
			subtract: in.Action.ReservesFunds(),
		},
	})
}

// OfferAccept accepts the offer of in.To. The transaction pays the seller's
// minimum accept fee, quoted against AcceptFeeReferenceSize; the process
// default fee is left untouched.
func (s *Service) OfferAccept(ctx context.Context, in intent.OfferAccept) (Outcome, error) {
	return s.observe(ctx, intent.OpOfferAccept, func(ctx context.Context) (Outcome, error) {
		var minAcceptFee int64

		err := s.validate(ctx, nil,
			requirement.PositiveAmount("amount", in.Amount),
			requirement.PrimaryToken(in.Property),
			requirement.MatchingOffer(in.To, in.Property),
			requirement.When(!in.Override, requirement.SaneOfferFee(in.To, in.Property, s.cfg.MaxAcceptFee)),
			requirement.When(!in.Override, requirement.SaneOfferPaymentWindow(in.To, in.Property, s.cfg.MinPaymentWindow)),
			func(_ context.Context, v ledger.View) error {
				if offer, ok := v.Offer(in.To, in.Property); ok {
					minAcceptFee = offer.MinAcceptFee
				}

				return nil
			},
		)
		if err != nil {
			return Outcome{}, err
		}

		data, err := s.encode(ctx, payload.DExAccept{Property: in.Property, Amount: in.Amount})
		if err != nil {
			return Outcome{}, err
		}

		scope := s.fees.Override(feepolicy.Rate{Fee: minAcceptFee, Size: s.cfg.AcceptFeeReferenceSize})
		defer scope.Release()

		rate, err := scope.Rate()
		if err != nil {
			return Outcome{}, protocol.WalletError("accept fee scope unavailable", err)
		}

		res, err := s.compose(ctx, intent.OpOfferAccept, composer.Request{
			From:    in.From,
			To:      in.To,
			Payload: data,
			Fee:     rate,
		})
		if err != nil {
			return Outcome{}, err
		}

		return s.settle(ctx, res, nil), nil
	})
}

func sigmaStatus(status *constant.SigmaStatus) requirement.Check {
	if status == nil {
		return nil
	}

	return requirement.SigmaStatus(*status)
}

func (s *Service) IssueCrowdsale(ctx context.Context, in intent.IssueCrowdsale) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpIssueCrowdsale,
		checks: []requirement.Check{
			requirement.PropertyName(in.Info.Name),
			requirement.ValidEcosystem(in.Info.Ecosystem),
			requirement.PositiveAmount("tokensPerUnit", in.TokensPerUnit),
			requirement.ExistingProperty(in.PropertyDesired),
			requirement.EcosystemOf(in.Info.Ecosystem, in.PropertyDesired),
		},
		params: payload.IssuanceVariable{
			PropertyInfo:     in.Info,
			PropertyDesired:  in.PropertyDesired,
			TokensPerUnit:    in.TokensPerUnit,
			Deadline:         in.Deadline,
			EarlyBonus:       in.EarlyBonus,
			IssuerPercentage: in.IssuerPercentage,
		},
		request: composer.Request{From: in.From},
	})
}

func (s *Service) IssueFixed(ctx context.Context, in intent.IssueFixed) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpIssueFixed,
		checks: []requirement.Check{
			requirement.PropertyName(in.Info.Name),
			requirement.ValidEcosystem(in.Info.Ecosystem),
			requirement.PositiveAmount("amount", in.Amount),
			sigmaStatus(in.Sigma),
		},
		params:  payload.IssuanceFixed{PropertyInfo: in.Info, Amount: in.Amount, Sigma: in.Sigma},
		request: composer.Request{From: in.From},
	})
}

func (s *Service) IssueManaged(ctx context.Context, in intent.IssueManaged) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpIssueManaged,
		checks: []requirement.Check{
			requirement.PropertyName(in.Info.Name),
			requirement.ValidEcosystem(in.Info.Ecosystem),
			sigmaStatus(in.Sigma),
		},
		params:  payload.IssuanceManaged{PropertyInfo: in.Info, Sigma: in.Sigma},
		request: composer.Request{From: in.From},
	})
}

func (s *Service) SendToOwners(ctx context.Context, in intent.SendToOwners) (Outcome, error) {
	pend := requirement.NewPendingSnapshot(s.pending)

	distribution := in.DistributionProperty
	if distribution == 0 {
		distribution = in.Property
	}

	return s.dispatch(ctx, plan{
		operation: intent.OpSendToOwners,
		pending:   pend,
		checks: []requirement.Check{
			requirement.PositiveAmount("amount", in.Amount),
			requirement.Balance(pend, in.From, in.Property, in.Amount),
		},
		params: payload.SendToOwners{
			Property:             in.Property,
			Amount:               in.Amount,
			DistributionProperty: distribution,
		},
		request: composer.Request{From: in.From, Redeem: in.Redeem},
		effect: &effect{
			address:  in.From,
			txType:   constant.TxTypeSendToOwners,
			property: in.Property,
			amount:   in.Amount,
			subtract: true,
		},
	})
}

// issuerChecks guards operations reserved to the issuer of a managed property.
func issuerChecks(from string, property protocol.PropertyID) []requirement.Check {
	return []requirement.Check{
		requirement.ExistingProperty(property),
		requirement.ManagedProperty(property),
		requirement.TokenIssuer(from, property),
	}
}

func (s *Service) Grant(ctx context.Context, in intent.Grant) (Outcome, error) {
	checks := append([]requirement.Check{requirement.PositiveAmount("amount", in.Amount)},
		issuerChecks(in.From, in.Property)...)

	return s.dispatch(ctx, plan{
		operation: intent.OpGrant,
		checks:    checks,
		params:    payload.Grant{Property: in.Property, Amount: in.Amount, Memo: in.Memo},
		request:   composer.Request{From: in.From, To: in.To},
	})
}

func (s *Service) Revoke(ctx context.Context, in intent.Revoke) (Outcome, error) {
	pend := requirement.NewPendingSnapshot(s.pending)

	checks := append([]requirement.Check{requirement.PositiveAmount("amount", in.Amount)},
		issuerChecks(in.From, in.Property)...)
	checks = append(checks, requirement.Balance(pend, in.From, in.Property, in.Amount))

	return s.dispatch(ctx, plan{
		operation: intent.OpRevoke,
		pending:   pend,
		checks:    checks,
		params:    payload.Revoke{Property: in.Property, Amount: in.Amount, Memo: in.Memo},
		request:   composer.Request{From: in.From},
	})
}

func (s *Service) CloseCrowdsale(ctx context.Context, in intent.CloseCrowdsale) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpCloseCrowdsale,
		checks: []requirement.Check{
			requirement.ExistingProperty(in.Property),
			requirement.Crowdsale(in.Property),
			requirement.ActiveCrowdsale(in.Property),
			requirement.TokenIssuer(in.From, in.Property),
		},
		params:  payload.CloseCrowdsale{Property: in.Property},
		request: composer.Request{From: in.From},
	})
}

// pairChecks guards exchange operations on a property pair.
func pairChecks(forSale, desired protocol.PropertyID) []requirement.Check {
	return []requirement.Check{
		requirement.ExistingProperty(forSale),
		requirement.ExistingProperty(desired),
		requirement.SameEcosystem(forSale, desired),
		requirement.DifferentIDs(forSale, desired),
	}
}

func (s *Service) Trade(ctx context.Context, in intent.Trade) (Outcome, error) {
	pend := requirement.NewPendingSnapshot(s.pending)

	checks := []requirement.Check{
		requirement.PositiveAmount("amountForSale", in.AmountForSale),
		requirement.PositiveAmount("amountDesired", in.AmountDesired),
		requirement.ExistingProperty(in.PropertyForSale),
		requirement.ExistingProperty(in.PropertyDesired),
		requirement.Balance(pend, in.From, in.PropertyForSale, in.AmountForSale),
		requirement.SameEcosystem(in.PropertyForSale, in.PropertyDesired),
		requirement.DifferentIDs(in.PropertyForSale, in.PropertyDesired),
	}

	return s.dispatch(ctx, plan{
		operation: intent.OpTrade,
		pending:   pend,
		checks:    checks,
		params: payload.MetaDExTrade{
			PropertyForSale: in.PropertyForSale,
			AmountForSale:   in.AmountForSale,
			PropertyDesired: in.PropertyDesired,
			AmountDesired:   in.AmountDesired,
		},
		request: composer.Request{From: in.From},
		effect: &effect{
			address:  in.From,
			txType:   constant.TxTypeMetaDExTrade,
			property: in.PropertyForSale,
			amount:   in.AmountForSale,
			subtract: true,
		},
	})
}

func (s *Service) CancelTradesByPrice(ctx context.Context, in intent.CancelTradesByPrice) (Outcome, error) {
	checks := append([]requirement.Check{
		requirement.PositiveAmount("amountForSale", in.AmountForSale),
		requirement.PositiveAmount("amountDesired", in.AmountDesired),
	}, pairChecks(in.PropertyForSale, in.PropertyDesired)...)

	return s.dispatch(ctx, plan{
		operation: intent.OpCancelTradesByPrice,
		checks:    checks,
		params: payload.MetaDExCancelPrice{
			PropertyForSale: in.PropertyForSale,
			AmountForSale:   in.AmountForSale,
			PropertyDesired: in.PropertyDesired,
			AmountDesired:   in.AmountDesired,
		},
		request: composer.Request{From: in.From},
		effect: &effect{
			address:  in.From,
			txType:   constant.TxTypeMetaDExCancelPrice,
			property: in.PropertyForSale,
			amount:   in.AmountForSale,
		},
	})
}

func (s *Service) CancelTradesByPair(ctx context.Context, in intent.CancelTradesByPair) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpCancelTradesByPair,
		checks:    pairChecks(in.PropertyForSale, in.PropertyDesired),
		params: payload.MetaDExCancelPair{
			PropertyForSale: in.PropertyForSale,
			PropertyDesired: in.PropertyDesired,
		},
		request: composer.Request{From: in.From},
		effect: &effect{
			address:  in.From,
			txType:   constant.TxTypeMetaDExCancelPair,
			property: in.PropertyForSale,
		},
	})
}

// CancelAllTrades rejects EcosystemNone, which the legacy mapping yields for
// properties of different ecosystems.
func (s *Service) CancelAllTrades(ctx context.Context, in intent.CancelAllTrades) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpCancelAllTrades,
		checks:    []requirement.Check{requirement.ValidEcosystem(in.Ecosystem)},
		params:    payload.MetaDExCancelEcosystem{Ecosystem: in.Ecosystem},
		request:   composer.Request{From: in.From},
		effect: &effect{
			address:  in.From,
			txType:   constant.TxTypeMetaDExCancelEcosystem,
			property: protocol.PropertyID(in.Ecosystem),
		},
	})
}

func (s *Service) ChangeIssuer(ctx context.Context, in intent.ChangeIssuer) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpChangeIssuer,
		checks: []requirement.Check{
			requirement.ExistingProperty(in.Property),
			requirement.TokenIssuer(in.From, in.Property),
		},
		params:  payload.ChangeIssuer{Property: in.Property},
		request: composer.Request{From: in.From, To: in.To},
	})
}

func (s *Service) EnableFreezing(ctx context.Context, in intent.EnableFreezing) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpEnableFreezing,
		checks:    issuerChecks(in.From, in.Property),
		params:    payload.EnableFreezing{Property: in.Property},
		request:   composer.Request{From: in.From},
	})
}

func (s *Service) DisableFreezing(ctx context.Context, in intent.DisableFreezing) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpDisableFreezing,
		checks:    issuerChecks(in.From, in.Property),
		params:    payload.DisableFreezing{Property: in.Property},
		request:   composer.Request{From: in.From},
	})
}

// Freeze carries the frozen address in the payload, not as a recipient.
func (s *Service) Freeze(ctx context.Context, in intent.Freeze) (Outcome, error) {
	checks := append([]requirement.Check{requirement.PositiveAmount("amount", in.Amount)},
		issuerChecks(in.From, in.Property)...)

	return s.dispatch(ctx, plan{
		operation: intent.OpFreeze,
		checks:    checks,
		params:    payload.FreezeTokens{Property: in.Property, Amount: in.Amount, Reference: in.Reference},
		request:   composer.Request{From: in.From},
	})
}

func (s *Service) Unfreeze(ctx context.Context, in intent.Unfreeze) (Outcome, error) {
	checks := append([]requirement.Check{requirement.PositiveAmount("amount", in.Amount)},
		issuerChecks(in.From, in.Property)...)

	return s.dispatch(ctx, plan{
		operation: intent.OpUnfreeze,
		checks:    checks,
		params:    payload.UnfreezeTokens{Property: in.Property, Amount: in.Amount, Reference: in.Reference},
		request:   composer.Request{From: in.From},
	})
}

func (s *Service) ActivateFeature(ctx context.Context, in intent.ActivateFeature) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpActivateFeature,
		params: payload.ActivateFeature{
			FeatureID:        in.FeatureID,
			ActivationBlock:  in.ActivationBlock,
			MinClientVersion: in.MinClientVersion,
		},
		request: composer.Request{From: in.From},
	})
}

func (s *Service) DeactivateFeature(ctx context.Context, in intent.DeactivateFeature) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpDeactivateFeature,
		params:    payload.DeactivateFeature{FeatureID: in.FeatureID},
		request:   composer.Request{From: in.From},
	})
}

func (s *Service) Alert(ctx context.Context, in intent.Alert) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpAlert,
		checks: []requirement.Check{
			requirement.InRange("alertType", in.AlertType, 1, constant.MaxAlertType),
			requirement.InRange("expiry", in.Expiry, 1, constant.MaxAlertExpiry),
		},
		params: payload.Alert{
			AlertType: uint16(in.AlertType), //nolint:gosec // range checked
			Expiry:    uint32(in.Expiry),    //nolint:gosec // range checked
			Message:   in.Message,
		},
		request: composer.Request{From: in.From},
	})
}

func (s *Service) CreateDenomination(ctx context.Context, in intent.CreateDenomination) (Outcome, error) {
	return s.dispatch(ctx, plan{
		operation: intent.OpCreateDenomination,
		checks: []requirement.Check{
			requirement.PositiveAmount("value", in.Value),
			requirement.ExistingProperty(in.Property),
			requirement.TokenIssuer(in.From, in.Property),
			requirement.SigmaEnabled(in.Property),
			requirement.DenominationCapacity(in.Property, s.cfg.MaxDenominations),
			requirement.NewDenominationValue(in.Property, in.Value),
		},
		params:  payload.CreateDenomination{Property: in.Property, Value: in.Value},
		request: composer.Request{From: in.From},
	})
}
