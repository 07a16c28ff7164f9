package customer

import "errors"

var (
	ErrMissingUserID = errors.New("customer: user id is required")
	ErrNotFound      = errors.New("customer: user record not found")
	ErrDirectory     = errors.New("customer: identity lookup failed")
	ErrUpstream      = errors.New("customer: payment provider rejected customer creation")
	ErrStore         = errors.New("customer: store operation failed")
	ErrCacheMiss     = errors.New("customer: cache miss")
)
