package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeInvalidAccount  = "invalid_account"
	ErrCodeInvalidPassword = "invalid_password"
	ErrCodeInvalidOpenID   = "invalid_openid"
	ErrCodeInvalidToken    = "invalid_token"
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternal        = "internal_error"
)
