package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pfinal/passport/internal/application/ports"
)

const findUserIDByOpenIDSQL = `SELECT user_id FROM identities WHERE platform = $1 AND app_id = $2 AND openid = $3`

// IdentityRepository implements ports.IdentityRepository over pgx.
type IdentityRepository struct {
	pool *pgxpool.Pool
}

func NewIdentityRepository(pool *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

func (r *IdentityRepository) FindUserID(ctx context.Context, platform, appID, openID string) (string, error) {
	var userID string
	err := r.pool.QueryRow(ctx, findUserIDByOpenIDSQL, platform, appID, openID).Scan(&userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return userID, nil
}

var _ ports.IdentityRepository = (*IdentityRepository)(nil)
