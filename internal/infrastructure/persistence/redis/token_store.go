package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pfinal/passport/internal/application/ports"
	"github.com/pfinal/passport/internal/domain"
)

const keyPrefix = "passport:token:"

// TokenStore implements ports.TokenStore on redis. Each token is a hash with
// a native TTL, so redis removes expired records itself and DeleteExpired is
// a no-op; the codec's age check against created_at stays authoritative.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

func (s *TokenStore) Save(ctx context.Context, token domain.StoredToken) error {
	key := keyPrefix + token.Token
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"user_id", token.UserID,
		"created_at", strconv.FormatInt(token.CreatedAt.Unix(), 10),
	)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *TokenStore) Find(ctx context.Context, token string) (*domain.StoredToken, error) {
	fields, err := s.client.HGetAll(ctx, keyPrefix+token).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, err
	}
	return &domain.StoredToken{
		Token:     token,
		UserID:    fields["user_id"],
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) (bool, error) {
	removed, err := s.client.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return removed == 1, nil
}

// DeleteExpired is a no-op: keys carry a TTL and redis expires them natively.
func (s *TokenStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

var _ ports.TokenStore = (*TokenStore)(nil)
