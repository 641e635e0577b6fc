package domain

import "time"

// Token is the credential returned to callers on successful issuance or
// verification. Immutable once constructed; it is never persisted itself.
type Token struct {
	UserID    string
	Value     string
	ExpiresAt int64 // unix seconds; 0 when the codec embeds no expiry
}

// StoredToken is the server-side record backing the opaque token strategy.
// Expiry is computed from CreatedAt against the configured TTL; expired rows
// are removed lazily or by the scheduled sweep, never rewritten.
type StoredToken struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}
