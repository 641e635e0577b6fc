package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pfinal/passport/internal/application/ports"
	"github.com/pfinal/passport/internal/domain"
)

const userColumns = `id, mobile, email, username, password_hash, change_password_at, created_at, updated_at`

// UserRepository implements ports.UserRepository over pgx.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByAccount(ctx context.Context, cond domain.AccountCondition) (*domain.User, error) {
	// The column comes from the classifier's closed field set, never from input.
	var column string
	switch cond.Field {
	case domain.AccountMobile:
		column = "mobile"
	case domain.AccountEmail:
		column = "email"
	case domain.AccountUsername:
		column = "username"
	default:
		return nil, fmt.Errorf("unknown account field %q", cond.Field)
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)
	return r.findOne(ctx, query, cond.Value)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.findOne(ctx, query, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		u         domain.User
		changedAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Mobile,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&changedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if changedAt.Valid {
		t := changedAt.Time.UTC()
		u.ChangePasswordAt = &t
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
