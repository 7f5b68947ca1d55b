package dispatch

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/commitment"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/composer"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/intent"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/payload"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

func listCommitments(t *testing.T, f *fixture) []commitment.Commitment {
	t.Helper()

	list, err := f.svc.Commitments().Store().List(context.Background())
	require.NoError(t, err)

	return list
}

func units(pairs ...int64) []intent.MintUnit {
	out := make([]intent.MintUnit, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, intent.MintUnit{Denomination: pairs[i], Count: pairs[i+1]})
	}

	return out
}

// ---------------------------------------------------------------------------
// Mint
// ---------------------------------------------------------------------------

func TestMintCommitBroadcastsCommitments(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	out, err := f.svc.Mint(context.Background(), intent.Mint{From: alice, Property: sigmaID, Units: units(0, 2)})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", out.TxID)

	list := listCommitments(t, f)
	require.Len(t, list, 2)

	for _, c := range list {
		assert.Equal(t, commitment.StateBroadcast, c.State)
		assert.Equal(t, "tx-1", c.MintTxID)
		assert.True(t, c.Spendable())
	}

	mint, ok := f.enc.last(t).(payload.SimpleMint)
	require.True(t, ok)
	assert.Equal(t, sigmaID, mint.Property)
	require.Len(t, mint.Mints, 2)
	assert.Equal(t, list[0].PublicValue, mint.Mints[0].PublicValue)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, constant.TxTypeSimpleMint, entries[0].TxType)
	assert.Equal(t, int64(20), entries[0].Amount)
	assert.True(t, entries[0].Subtract)
	assert.Equal(t, alice, entries[0].Address)
}

func TestMintUnconfirmedDenominationCreatesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.Mint(context.Background(), intent.Mint{From: alice, Property: sigmaID, Units: units(0, 1, 1, 2)})
	requireDomainError(t, err, protocol.KindPreconditionFailed, protocol.ErrorDenominationUnconfirmed)

	assert.Empty(t, listCommitments(t, f))
	assert.Zero(t, f.comp.calls())
	assert.Zero(t, f.enc.calls())
}

func TestMintCustomConfirmationDepth(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.Mint(context.Background(), intent.Mint{
		From: alice, Property: sigmaID, Units: units(1, 1), MinConfirmations: 1,
	})
	require.NoError(t, err)
	assert.Len(t, listCommitments(t, f), 1)
}

func TestMintParameterErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		units []intent.MintUnit
		kind  protocol.Kind
		code  protocol.ErrorCode
	}{
		{name: "denomination out of range", units: units(256, 1), kind: protocol.KindInvalidParameter, code: protocol.ErrorOutOfRange},
		{name: "negative denomination", units: units(-1, 1), kind: protocol.KindInvalidParameter, code: protocol.ErrorOutOfRange},
		{name: "count out of range", units: units(0, 256), kind: protocol.KindInvalidParameter, code: protocol.ErrorOutOfRange},
		{name: "unknown denomination", units: units(7, 1), kind: protocol.KindInvalidParameter, code: protocol.ErrorUnknownDenomination},
		{name: "balance", units: units(0, 200), kind: protocol.KindInsufficientFunds, code: protocol.ErrorInsufficientBalance},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)

			_, err := f.svc.Mint(context.Background(), intent.Mint{From: alice, Property: sigmaID, Units: tt.units})
			requireDomainError(t, err, tt.kind, tt.code)
			assert.Empty(t, listCommitments(t, f))
			assert.Zero(t, f.comp.calls())
		})
	}
}

func TestMintAmountOverflow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	d, ok := f.ledger.AddDenomination(sigmaID, math.MaxInt64/2+1, 6)
	require.True(t, ok)

	_, err := f.svc.Mint(context.Background(), intent.Mint{From: alice, Property: sigmaID, Units: units(int64(d), 2)})
	requireDomainError(t, err, protocol.KindInvalidParameter, protocol.ErrorAmountOverflow)
	assert.Empty(t, listCommitments(t, f))
}

func TestMintCompositionFailureErasesCommitments(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.comp.fail(&composer.StatusError{Code: -5, Message: "invalid address"})

	_, err := f.svc.Mint(context.Background(), intent.Mint{From: alice, Property: sigmaID, Units: units(0, 3)})
	requireDomainError(t, err, protocol.KindCompositionFailed, protocol.ErrorCompositionFailed)

	assert.Empty(t, listCommitments(t, f))
	assert.Empty(t, f.entries(t))
}

func TestMintFailureLeavesExistingCommitmentsUnchanged(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Mint(ctx, intent.Mint{From: alice, Property: sigmaID, Units: units(0, 2)})
	require.NoError(t, err)

	_, err = f.svc.Spend(ctx, intent.Spend{To: bob, Property: sigmaID, Denomination: 0})
	require.NoError(t, err)

	before := listCommitments(t, f)
	require.Len(t, before, 2)

	f.comp.fail(&composer.StatusError{Code: -5, Message: "invalid address"})

	_, err = f.svc.Mint(ctx, intent.Mint{From: alice, Property: sigmaID, Units: units(0, 3)})
	requireDomainError(t, err, protocol.KindCompositionFailed, protocol.ErrorCompositionFailed)

	assert.Equal(t, before, listCommitments(t, f))

	states := map[bool]commitment.State{}
	for _, c := range before {
		states[c.Used] = c.State
	}

	assert.Equal(t, map[bool]commitment.State{true: commitment.StateBroadcast, false: commitment.StateBroadcast}, states)
}

func TestMintEncoderFailureErasesCommitments(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.enc.err = errors.New("too many mints")

	_, err := f.svc.Mint(context.Background(), intent.Mint{From: alice, Property: sigmaID, Units: units(0, 3)})
	requireDomainError(t, err, protocol.KindInvalidParameter, protocol.ErrorPayloadRejected)

	assert.Empty(t, listCommitments(t, f))
	assert.Zero(t, f.comp.calls())
}

func TestMintRawModeKeepsCreatedCommitments(t *testing.T) {
	t.Parallel()

	f := newFixture(t, rawMode())

	out, err := f.svc.Mint(context.Background(), intent.Mint{From: alice, Property: sigmaID, Units: units(0, 2)})
	require.NoError(t, err)
	assert.Equal(t, "raw-1", out.RawHex)

	list := listCommitments(t, f)
	require.Len(t, list, 2)

	for _, c := range list {
		assert.Equal(t, commitment.StateCreated, c.State)
		assert.Empty(t, c.MintTxID)
	}

	assert.Empty(t, f.entries(t))
}

// ---------------------------------------------------------------------------
// Spend
// ---------------------------------------------------------------------------

// broadcastMint places one spendable commitment of denomination 0 in the store.
func broadcastMint(t *testing.T, f *fixture) commitment.Commitment {
	t.Helper()

	ctx := context.Background()
	store := f.svc.Commitments().Store()

	c, err := store.CreateMint(ctx, sigmaID, 0)
	require.NoError(t, err)
	require.NoError(t, store.MarkBroadcast(ctx, c.ID, "mint-tx"))

	return c
}

func getCommitment(t *testing.T, f *fixture, id string) commitment.Commitment {
	t.Helper()

	c, err := f.svc.Commitments().Store().Get(context.Background(), id)
	require.NoError(t, err)

	return c
}

func TestSpendMarksCommitmentUsed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := broadcastMint(t, f)

	out, err := f.svc.Spend(context.Background(), intent.Spend{To: bob, Property: sigmaID, Denomination: 0, ReferenceAmount: 7})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", out.TxID)

	req := f.comp.last(t)
	assert.Empty(t, req.From)
	assert.Equal(t, bob, req.To)
	assert.Equal(t, int64(7), req.ReferenceAmount)
	assert.Equal(t, composer.InputModeSigma, req.InputMode)

	spend, ok := f.enc.last(t).(payload.SimpleSpend)
	require.True(t, ok)
	assert.Equal(t, c.ID, spend.Spend.CommitmentID)

	used := getCommitment(t, f, c.ID)
	assert.True(t, used.Used)
	assert.Equal(t, "tx-1", used.SpendTxID)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Address)
	assert.Equal(t, constant.TxTypeSimpleSpend, entries[0].TxType)
	assert.Equal(t, int64(10), entries[0].Amount)
	assert.False(t, entries[0].Subtract)
}

func TestSpendFailureLeavesCommitmentSpendable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := broadcastMint(t, f)
	ctx := context.Background()
	spend := intent.Spend{To: bob, Property: sigmaID, Denomination: 0}

	f.comp.fail(&composer.StatusError{Code: -6, Message: "insufficient funds"})

	_, err := f.svc.Spend(ctx, spend)
	requireDomainError(t, err, protocol.KindCompositionFailed, "")

	after := getCommitment(t, f, c.ID)
	assert.False(t, after.Used)
	assert.False(t, after.Reserved)
	assert.True(t, after.Spendable())
	assert.Empty(t, f.entries(t))

	f.comp.fail(nil)

	_, err = f.svc.Spend(ctx, spend)
	require.NoError(t, err)
	assert.True(t, getCommitment(t, f, c.ID).Used)
}

func TestSpendEncoderFailureReleasesReservation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := broadcastMint(t, f)
	f.enc.err = errors.New("proof too large")

	_, err := f.svc.Spend(context.Background(), intent.Spend{To: bob, Property: sigmaID, Denomination: 0})
	requireDomainError(t, err, protocol.KindInvalidParameter, protocol.ErrorPayloadRejected)
	assert.True(t, getCommitment(t, f, c.ID).Spendable())
	assert.Zero(t, f.comp.calls())
}

func TestSpendRawModeStillMarksUsed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, rawMode())
	c := broadcastMint(t, f)

	out, err := f.svc.Spend(context.Background(), intent.Spend{To: bob, Property: sigmaID, Denomination: 0})
	require.NoError(t, err)
	assert.Equal(t, "raw-1", out.RawHex)

	used := getCommitment(t, f, c.ID)
	assert.True(t, used.Used)
	assert.Equal(t, "tx-1", used.SpendTxID)
	assert.Empty(t, f.entries(t))
}

func TestSpendErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		spend intent.Spend
		kind  protocol.Kind
		code  protocol.ErrorCode
	}{
		{
			name:  "no spendable mint",
			spend: intent.Spend{To: bob, Property: sigmaID, Denomination: 0},
			kind:  protocol.KindInsufficientFunds,
			code:  protocol.ErrorNoSpendableCommitment,
		},
		{
			name:  "unknown denomination",
			spend: intent.Spend{To: bob, Property: sigmaID, Denomination: 9},
			kind:  protocol.KindPreconditionFailed,
			code:  protocol.ErrorDenominationNotFound,
		},
		{
			name:  "unknown property",
			spend: intent.Spend{To: bob, Property: 999, Denomination: 0},
			kind:  protocol.KindPreconditionFailed,
			code:  protocol.ErrorPropertyNotFound,
		},
		{
			name:  "reference amount too high",
			spend: intent.Spend{To: bob, Property: sigmaID, Denomination: 0, ReferenceAmount: constant.DefaultMaxReferenceAmount + 1},
			kind:  protocol.KindInvalidParameter,
			code:  protocol.ErrorReferenceAmountTooHigh,
		},
		{
			name:  "denomination out of range",
			spend: intent.Spend{To: bob, Property: sigmaID, Denomination: 300},
			kind:  protocol.KindInvalidParameter,
			code:  protocol.ErrorOutOfRange,
		},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)

			_, err := f.svc.Spend(context.Background(), tt.spend)
			requireDomainError(t, err, tt.kind, tt.code)
			assert.Zero(t, f.comp.calls())
		})
	}
}

func TestSpendDoesNotReachForReservedCommitment(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	broadcastMint(t, f)

	plan, err := f.svc.Commitments().PrepareSpend(context.Background(), sigmaID, 0)
	require.NoError(t, err)

	defer plan.Abort(context.Background())

	_, err = f.svc.Spend(context.Background(), intent.Spend{To: bob, Property: sigmaID, Denomination: 0})
	requireDomainError(t, err, protocol.KindInsufficientFunds, protocol.ErrorNoSpendableCommitment)
}
