package auth

import "errors"

var (
	// ErrConfig is returned when the signing secret is empty.
	ErrConfig = errors.New("auth: signing secret is not configured")

	// ErrInvalidToken covers malformed tokens, bad signatures and unsupported algorithms.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenExpired is returned alongside ErrInvalidToken once exp has passed.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrMissingClaim is returned for a well-signed token without user_id.
	ErrMissingClaim = errors.New("auth: token is missing the user_id claim")

	// ErrHashing is returned when bcrypt cannot produce a hash.
	ErrHashing = errors.New("auth: password hashing failed")
)
