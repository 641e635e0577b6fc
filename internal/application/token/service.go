package token

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pfinal/passport/internal/application/ports"
	"github.com/pfinal/passport/internal/domain"
	domerrors "github.com/pfinal/passport/internal/domain/errors"
)

// Token encoding strategy names accepted in configuration.
const (
	TypeJWT   = "jwt"
	TypeStore = "store"
)

// DefaultExpiry is the token TTL in seconds when none is configured (30 days).
const DefaultExpiry int64 = 2_592_000

// Service orchestrates account resolution, password verification and token
// encoding. It is stateless; the configured codec and store carry all state.
type Service struct {
	users      ports.UserRepository
	identities ports.IdentityRepository
	hasher     ports.PasswordHasher
	codec      ports.TokenCodec
	log        zerolog.Logger
}

func NewService(users ports.UserRepository, identities ports.IdentityRepository, hasher ports.PasswordHasher, codec ports.TokenCodec, log zerolog.Logger) *Service {
	return &Service{
		users:      users,
		identities: identities,
		hasher:     hasher,
		codec:      codec,
		log:        log,
	}
}

// IssueByAccount resolves an account string (mobile, email or username) to a
// user, verifies the password and issues a token.
func (s *Service) IssueByAccount(ctx context.Context, account, password string) (domain.Token, error) {
	cond := domain.ClassifyAccount(account)
	user, err := s.users.FindByAccount(ctx, cond)
	if err != nil {
		return domain.Token{}, err
	}
	if user == nil {
		return domain.Token{}, domerrors.ErrInvalidAccount
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.Token{}, domerrors.ErrInvalidPassword
	}
	issued, err := s.codec.Encode(ctx, user.ID, nil)
	if err != nil {
		return domain.Token{}, err
	}
	s.log.Debug().Str("user_id", user.ID).Str("field", string(cond.Field)).Msg("token issued by account")
	return issued, nil
}

// IssueByOpenID issues a token for an already-resolved third-party identity.
func (s *Service) IssueByOpenID(ctx context.Context, platform, appID, openID string) (domain.Token, error) {
	userID, err := s.identities.FindUserID(ctx, platform, appID, openID)
	if err != nil {
		return domain.Token{}, err
	}
	if userID == "" {
		return domain.Token{}, domerrors.ErrInvalidOpenID
	}
	issued, err := s.codec.Encode(ctx, userID, nil)
	if err != nil {
		return domain.Token{}, err
	}
	s.log.Debug().Str("user_id", userID).Str("platform", platform).Msg("token issued by openid")
	return issued, nil
}

// Verify validates a token value and resolves the user behind it.
// checkPasswordChange only affects the signed strategy.
func (s *Service) Verify(ctx context.Context, value string, checkPasswordChange bool) (domain.Token, error) {
	return s.codec.Decode(ctx, value, checkPasswordChange)
}

// Revoke deletes a stored token; for signed tokens it reports false.
func (s *Service) Revoke(ctx context.Context, value string) (bool, error) {
	return s.codec.Revoke(ctx, value)
}
