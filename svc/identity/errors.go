package identity

import "errors"

var (
	ErrUserNotFound   = errors.New("identity: user not found")
	ErrMissingUserID  = errors.New("identity: user id is required")
	ErrDirectory      = errors.New("identity: directory lookup failed")
	ErrMissingSubject = errors.New("identity: token has no subject")
	ErrMissingExpiry  = errors.New("identity: token has no expiry")
)
