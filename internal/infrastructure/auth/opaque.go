package auth

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pfinal/passport/internal/application/ports"
	"github.com/pfinal/passport/internal/domain"
	domerrors "github.com/pfinal/passport/internal/domain/errors"
)

// Sweep odds: 1000 in 1,000,000 decodes (0.1%) garbage-collect expired rows,
// bounding store growth without a dedicated background sweeper.
const (
	sweepNumerator   = 1000
	sweepDenominator = 1_000_000
)

// OpaqueCodec implements ports.TokenCodec with random identifiers persisted
// server-side. Expiry is computed from the stored CreatedAt, so revocation
// is a plain delete.
type OpaqueCodec struct {
	store ports.TokenStore
	ttl   time.Duration
	log   zerolog.Logger

	now       func() time.Time
	sweepRoll func() int // uniform in [0, sweepDenominator)
	newID     func() string
}

func NewOpaqueCodec(store ports.TokenStore, ttl time.Duration, log zerolog.Logger) *OpaqueCodec {
	return &OpaqueCodec{
		store:     store,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
		sweepRoll: func() int { return rand.Intn(sweepDenominator) },
		newID:     NewGUID,
	}
}

// Encode ignores extra claims; an opaque token carries no payload.
func (c *OpaqueCodec) Encode(ctx context.Context, userID string, extra map[string]any) (domain.Token, error) {
	value := strings.ToLower(strings.ReplaceAll(c.newID(), "-", ""))
	now := c.now()
	if err := c.store.Save(ctx, domain.StoredToken{Token: value, UserID: userID, CreatedAt: now}); err != nil {
		return domain.Token{}, err
	}
	return domain.Token{UserID: userID, Value: value, ExpiresAt: now.Add(c.ttl).Unix()}, nil
}

func (c *OpaqueCodec) Decode(ctx context.Context, value string, checkPasswordChange bool) (domain.Token, error) {
	now := c.now()

	if c.sweepRoll() < sweepNumerator {
		removed, err := c.store.DeleteExpired(ctx, now.Add(-c.ttl))
		if err != nil {
			return domain.Token{}, err
		}
		if removed > 0 {
			c.log.Debug().Int64("removed", removed).Msg("swept expired tokens")
		}
	}

	record, err := c.store.Find(ctx, value)
	if err != nil {
		return domain.Token{}, err
	}
	if record == nil {
		return domain.Token{}, domerrors.ErrInvalidToken
	}
	// Expired rows are left in place for the sweep or an explicit delete.
	if now.Sub(record.CreatedAt) > c.ttl {
		return domain.Token{}, domerrors.ErrInvalidToken
	}
	return domain.Token{UserID: record.UserID, Value: value, ExpiresAt: record.CreatedAt.Add(c.ttl).Unix()}, nil
}

func (c *OpaqueCodec) Revoke(ctx context.Context, value string) (bool, error) {
	return c.store.Delete(ctx, value)
}

var _ ports.TokenCodec = (*OpaqueCodec)(nil)
