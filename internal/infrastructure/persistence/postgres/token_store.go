package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pfinal/passport/internal/application/ports"
	"github.com/pfinal/passport/internal/domain"
)

const (
	saveTokenSQL     = `INSERT INTO tokens (token, user_id, created_at) VALUES ($1, $2, $3)`
	findTokenSQL     = `SELECT token, user_id, created_at FROM tokens WHERE token = $1`
	deleteTokenSQL   = `DELETE FROM tokens WHERE token = $1`
	deleteExpiredSQL = `DELETE FROM tokens WHERE created_at < $1`
)

// TokenStore implements ports.TokenStore over pgx. The token column is the
// primary key, which gives the uniqueness the opaque strategy relies on.
type TokenStore struct {
	pool *pgxpool.Pool
}

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

func (s *TokenStore) Save(ctx context.Context, token domain.StoredToken) error {
	_, err := s.pool.Exec(ctx, saveTokenSQL, token.Token, token.UserID, token.CreatedAt)
	return err
}

func (s *TokenStore) Find(ctx context.Context, token string) (*domain.StoredToken, error) {
	var record domain.StoredToken
	err := s.pool.QueryRow(ctx, findTokenSQL, token).Scan(&record.Token, &record.UserID, &record.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return &record, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) (bool, error) {
	tag, err := s.pool.Exec(ctx, deleteTokenSQL, token)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *TokenStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, deleteExpiredSQL, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ ports.TokenStore = (*TokenStore)(nil)
