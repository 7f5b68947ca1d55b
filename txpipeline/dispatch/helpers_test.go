package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/composer"
	constant "github.com/tokenlayer/lib-txpipeline/txpipeline/constants"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/ledger"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/payload"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/pending"
	"github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"
)

const (
	alice = "alice-wallet-address-01"
	bob   = "bob-wallet-address-0002"

	mainToken   protocol.PropertyID = 1
	testToken   protocol.PropertyID = 2
	managedID   protocol.PropertyID = 3
	otherID     protocol.PropertyID = 4
	sigmaID     protocol.PropertyID = 5
	crowdsaleID protocol.PropertyID = 6
	testUserID                      = protocol.PropertyID(constant.FirstTestEcosystemProperty)

	sellerFee int64 = 5000
)

// fakeComposer numbers transactions tx-1, tx-2, ... and returns raw-N when not committing.
type fakeComposer struct {
	mu       sync.Mutex
	requests []composer.Request
	err      error
	n        int
}

func (f *fakeComposer) Compose(_ context.Context, req composer.Request) (composer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)

	if f.err != nil {
		return composer.Result{}, f.err
	}

	f.n++

	res := composer.Result{TxID: fmt.Sprintf("tx-%d", f.n)}
	if !req.Commit {
		res.RawHex = fmt.Sprintf("raw-%d", f.n)
	}

	return res, nil
}

func (f *fakeComposer) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = err
}

func (f *fakeComposer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.requests)
}

func (f *fakeComposer) all() []composer.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]composer.Request(nil), f.requests...)
}

func (f *fakeComposer) last(t *testing.T) composer.Request {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.requests, "composer was not called")

	return f.requests[len(f.requests)-1]
}

// recordingEncoder encodes params as the name of their transaction type.
type recordingEncoder struct {
	mu     sync.Mutex
	params []payload.Params
	err    error
}

func (e *recordingEncoder) Encode(_ context.Context, params payload.Params) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.params = append(e.params, params)

	if e.err != nil {
		return nil, e.err
	}

	return []byte(params.TxType().String()), nil
}

func (e *recordingEncoder) last(t *testing.T) payload.Params {
	t.Helper()

	e.mu.Lock()
	defer e.mu.Unlock()

	require.NotEmpty(t, e.params, "encoder was not called")

	return e.params[len(e.params)-1]
}

func (e *recordingEncoder) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.params)
}

// failingRecorder wraps a ledger whose Record always fails.
type failingRecorder struct {
	pending.Ledger
}

func (failingRecorder) Record(context.Context, pending.Entry) error {
	return errors.New("pending store unavailable")
}

func newLedger() *ledger.Memory {
	m := ledger.NewMemory()

	m.PutProperty(protocol.Property{ID: mainToken, Name: "Main", Divisible: true})
	m.PutProperty(protocol.Property{ID: testToken, Name: "Test", Divisible: true})
	m.PutProperty(protocol.Property{ID: managedID, Name: "Managed", Issuer: alice, Managed: true})
	m.PutProperty(protocol.Property{ID: otherID, Name: "Other", Issuer: bob})
	m.PutProperty(protocol.Property{
		ID: sigmaID, Name: "Sigma", Issuer: alice, Managed: true,
		SigmaStatus: constant.SigmaSoftEnabled,
	})
	m.PutProperty(protocol.Property{ID: crowdsaleID, Name: "Sale", Issuer: alice, FromCrowdsale: true})
	m.PutProperty(protocol.Property{ID: testUserID, Name: "Test user"})

	// denomination 0 (value 10) is confirmed, denomination 1 (value 20) is not
	m.AddDenomination(sigmaID, 10, 6)
	m.AddDenomination(sigmaID, 20, 1)

	m.SetCrowdsaleActive(crowdsaleID, true)

	m.SetBalance(alice, mainToken, 1000)
	m.SetBalance(alice, managedID, 500)
	m.SetBalance(alice, otherID, 100)
	m.SetBalance(alice, sigmaID, 1000)
	m.SetBalance(bob, mainToken, 1000)

	m.PutOffer(protocol.Offer{
		Seller:        bob,
		Property:      mainToken,
		AmountForSale: 100,
		AmountDesired: 50,
		MinAcceptFee:  sellerFee,
		PaymentWindow: 20,
	})

	return m
}

type fixture struct {
	svc     *Service
	comp    *fakeComposer
	enc     *recordingEncoder
	ledger  *ledger.Memory
	pending *pending.MemoryLedger
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		comp:    &fakeComposer{},
		enc:     &recordingEncoder{},
		ledger:  newLedger(),
		pending: pending.NewMemoryLedger(),
	}

	svc, err := New(f.ledger, f.comp, f.enc, append([]Option{WithPending(f.pending)}, opts...)...)
	require.NoError(t, err)

	f.svc = svc

	return f
}

func (f *fixture) entries(t *testing.T) []pending.Entry {
	t.Helper()

	entries, err := f.pending.Entries(context.Background())
	require.NoError(t, err)

	return entries
}

func rawMode() Option {
	cfg := DefaultConfig()
	cfg.AutoCommit = false

	return WithConfig(cfg)
}

func requireDomainError(t *testing.T, err error, kind protocol.Kind, code protocol.ErrorCode) *protocol.DomainError {
	t.Helper()

	var de *protocol.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, kind, de.Kind, "unexpected kind: %v", err)

	if code != "" {
		require.Equal(t, code, de.Code, "unexpected code: %v", err)
	}

	return de
}
