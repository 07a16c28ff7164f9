package billing

import "errors"

var (
	ErrMissingAPIKey     = errors.New("billing: api key is required")
	ErrUnknownProvider   = errors.New("billing: unknown provider")
	ErrInvalidConfig     = errors.New("billing: invalid configuration")
	ErrNoCheckoutURL     = errors.New("billing: provider returned no checkout url")
	ErrMissingPriceID    = errors.New("billing: price id is required")
	ErrMissingCustomerID = errors.New("billing: customer id is required")
	ErrMissingEmail      = errors.New("billing: customer email is required")
)

// ProviderError is a failure reported by the payment provider API.
type ProviderError struct {
	Provider string
	Op       string
	Code     string
	Message  string
	Err      error
}

// Error returns the provider's own message, which is safe to show to clients.
func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Provider + ": " + e.Op + " failed"
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
