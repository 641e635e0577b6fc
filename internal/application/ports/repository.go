package ports

import (
	"context"
	"time"

	"github.com/pfinal/passport/internal/domain"
)

// UserRepository defines read access to user records. Absent users are
// (nil, nil); errors are infrastructure failures only.
type UserRepository interface {
	FindByAccount(ctx context.Context, cond domain.AccountCondition) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// IdentityRepository maps already-resolved third-party identities
// (platform + app + external user id) to local user ids. Absent mappings
// return "".
type IdentityRepository interface {
	FindUserID(ctx context.Context, platform, appID, openID string) (string, error)
}

// TokenStore defines storage for opaque tokens. The token value is the
// lookup key and must be unique. Per-record atomicity is required; no
// cross-record transactions are.
type TokenStore interface {
	Save(ctx context.Context, token domain.StoredToken) error
	// Find returns (nil, nil) when the token is absent.
	Find(ctx context.Context, token string) (*domain.StoredToken, error)
	// Delete reports true iff exactly one record was removed.
	Delete(ctx context.Context, token string) (bool, error)
	// DeleteExpired removes records created before cutoff and returns the count.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
