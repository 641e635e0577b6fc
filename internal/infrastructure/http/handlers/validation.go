package handlers

import "strings"

// Validation limits.
const (
	MaxAccountLength  = 254
	MaxPasswordLength = 128
	MaxTokenLength    = 2048
)

// SanitizeAccount trims the account string; returns empty if over max length.
func SanitizeAccount(account string) string {
	s := strings.TrimSpace(account)
	if len(s) > MaxAccountLength {
		return ""
	}
	return s
}

// SanitizePassword trims password; returns empty if over max length.
func SanitizePassword(password string) string {
	s := strings.TrimSpace(password)
	if len(s) > MaxPasswordLength {
		return ""
	}
	return s
}

// TruncateToken truncates a token value to MaxTokenLength.
func TruncateToken(tok string) string {
	if len(tok) > MaxTokenLength {
		return tok[:MaxTokenLength]
	}
	return tok
}
