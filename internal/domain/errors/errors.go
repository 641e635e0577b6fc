package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status. Store I/O failures are
// never converted to one of these; they propagate as-is.
var (
	ErrInvalidAccount    = errors.New("account does not resolve to any user")
	ErrInvalidPassword   = errors.New("account and password do not match")
	ErrInvalidOpenID     = errors.New("openid does not map to any user")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrInvalidSigningKey = errors.New("jwt signing key is missing or empty")
)
