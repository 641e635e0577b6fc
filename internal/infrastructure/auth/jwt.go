package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pfinal/passport/internal/application/ports"
	"github.com/pfinal/passport/internal/domain"
	domerrors "github.com/pfinal/passport/internal/domain/errors"
)

// jwtLeeway absorbs clock drift between servers when validating iat/exp.
const jwtLeeway = 180 * time.Second

// PasswordChangedAtFunc looks up when a user last changed their password,
// nil meaning never. Injected so the codec stays testable without a store.
type PasswordChangedAtFunc func(ctx context.Context, userID string) (*time.Time, error)

// JWTCodec implements ports.TokenCodec with self-contained HS256 tokens.
// Expiry is embedded in the claims; the only revocation mechanism is the
// password-change check on decode.
type JWTCodec struct {
	key               []byte
	ttl               time.Duration
	passwordChangedAt PasswordChangedAtFunc // optional
	now               func() time.Time
}

func NewJWTCodec(key []byte, ttl time.Duration, passwordChangedAt PasswordChangedAtFunc) *JWTCodec {
	return &JWTCodec{
		key:               key,
		ttl:               ttl,
		passwordChangedAt: passwordChangedAt,
		now:               time.Now,
	}
}

func (c *JWTCodec) Encode(ctx context.Context, userID string, extra map[string]any) (domain.Token, error) {
	if len(c.key) == 0 {
		return domain.Token{}, domerrors.ErrInvalidSigningKey
	}
	now := c.now()
	exp := now.Add(c.ttl)
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = exp.Unix()
	claims["user_id"] = userID

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return domain.Token{}, err
	}
	return domain.Token{UserID: userID, Value: signed, ExpiresAt: exp.Unix()}, nil
}

func (c *JWTCodec) Decode(ctx context.Context, value string, checkPasswordChange bool) (domain.Token, error) {
	if len(c.key) == 0 {
		return domain.Token{}, domerrors.ErrInvalidSigningKey
	}
	parsed, err := jwt.Parse(value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithLeeway(jwtLeeway),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Token{}, domerrors.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Token{}, domerrors.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return domain.Token{}, domerrors.ErrInvalidToken
	}

	if checkPasswordChange && c.passwordChangedAt != nil {
		issuedAt, err := claims.GetIssuedAt()
		if err != nil || issuedAt == nil {
			return domain.Token{}, domerrors.ErrInvalidToken
		}
		changedAt, err := c.passwordChangedAt(ctx, userID)
		if err != nil {
			// Store failures are not masked as an invalid token.
			return domain.Token{}, err
		}
		// A password change after issuance revokes the token.
		if changedAt != nil && changedAt.After(issuedAt.Time) {
			return domain.Token{}, domerrors.ErrInvalidToken
		}
	}

	var expiresAt int64
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Unix()
	}
	return domain.Token{UserID: userID, Value: value, ExpiresAt: expiresAt}, nil
}

// Revoke is a no-op for signed tokens; there is no denylist.
func (c *JWTCodec) Revoke(ctx context.Context, value string) (bool, error) {
	return false, nil
}

var _ ports.TokenCodec = (*JWTCodec)(nil)
