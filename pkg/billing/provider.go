package billing

import "context"

// Provider is the subset of a payment provider API used by checkout.
type Provider interface {
	CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

type CustomerRequest struct {
	UserID string
	Email  string
	// IdempotencyKey collapses retries of the same creation into one
	// customer on providers that support it.
	IdempotencyKey string
}

type Customer struct {
	ID string
}

type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

func (r CheckoutRequest) validate() error {
	if r.CustomerID == "" {
		return ErrMissingCustomerID
	}
	if r.PriceID == "" {
		return ErrMissingPriceID
	}
	return nil
}
