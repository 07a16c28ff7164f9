package checkout

import "errors"

var (
	ErrMissingPriceID     = errors.New("checkout: price id is required")
	ErrMissingRedirectURL = errors.New("checkout: success and cancel urls are required")
	ErrInvalidRedirectURL = errors.New("checkout: redirect url must be an absolute http(s) url")
	ErrUnknownPrice       = errors.New("checkout: price is not in the catalog")
	ErrUpstream           = errors.New("checkout: payment provider rejected session creation")
)

// IsInvalidRequest reports whether err was caused by the request itself.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrMissingPriceID) ||
		errors.Is(err, ErrMissingRedirectURL) ||
		errors.Is(err, ErrInvalidRedirectURL) ||
		errors.Is(err, ErrUnknownPrice)
}
