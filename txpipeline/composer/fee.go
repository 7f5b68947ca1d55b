package composer

import (
	"context"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/feepolicy"
)

// FeeResolver fills in the fee rate of requests that carry no override.
type FeeResolver struct {
	next  Composer
	store *feepolicy.Store
}

// WithFeePolicy wraps next so every request reaches it with an explicit rate.
func WithFeePolicy(next Composer, store *feepolicy.Store) *FeeResolver {
	return &FeeResolver{next: next, store: store}
}

// Resolve returns the rate req will be composed with.
func (f *FeeResolver) Resolve(req Request) feepolicy.Rate {
	if f.store == nil {
		if req.Fee != nil {
			return *req.Fee
		}

		return feepolicy.Rate{}
	}

	return f.store.Resolve(req.Fee)
}

// Compose resolves the rate and forwards the request.
func (f *FeeResolver) Compose(ctx context.Context, req Request) (Result, error) {
	rate := f.Resolve(req)
	req.Fee = &rate

	return f.next.Compose(ctx, req)
}
