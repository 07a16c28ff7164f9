package customer

import (
	"context"

	"github.com/dmitrymomot/checkoutkit/pkg/billing"
)

// Store persists the customer reference on the user's document.
type Store interface {
	// CustomerID returns "" when the user has no document or no reference.
	CustomerID(ctx context.Context, userID string) (string, error)
	// SetCustomerIDIfAbsent stores customerID unless a reference is already
	// present, leaving other document fields intact. It returns the
	// reference that is stored after the call.
	SetCustomerIDIfAbsent(ctx context.Context, userID, customerID string) (string, error)
}

// Creator creates customers at the payment provider.
type Creator interface {
	CreateCustomer(ctx context.Context, req billing.CustomerRequest) (*billing.Customer, error)
}

// Cache is an optional read-through cache in front of Store.
type Cache interface {
	// Get returns ErrCacheMiss when userID is not cached.
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID, customerID string) error
}

// Recorder receives resolver counters. *metrics.Metrics satisfies it.
type Recorder interface {
	CustomerCreated()
	CustomerCacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) CustomerCreated()         {}
func (nopRecorder) CustomerCacheLookup(bool) {}
