package ports

import (
	"context"

	"github.com/pfinal/passport/internal/domain"
)

// PasswordHasher hashes and verifies passwords. Verify never errors on a
// wrong password; it returns false.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenCodec encodes and decodes bearer tokens. Implementations are the
// signed-claims (jwt) and stored-opaque (store) strategies.
type TokenCodec interface {
	// Encode issues a token for userID. Extra claims are merged into
	// signed tokens and ignored by the opaque strategy.
	Encode(ctx context.Context, userID string, extra map[string]any) (domain.Token, error)
	// Decode validates a token value and resolves the identity behind it.
	// checkPasswordChange only affects the signed strategy: it rejects
	// tokens issued before the user's last password change.
	Decode(ctx context.Context, value string, checkPasswordChange bool) (domain.Token, error)
	// Revoke invalidates a token, reporting whether one was removed.
	// Signed tokens carry no server-side state, so revoking them is a
	// no-op returning false.
	Revoke(ctx context.Context, value string) (bool, error)
}
