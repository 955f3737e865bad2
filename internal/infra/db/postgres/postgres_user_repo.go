package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

// PostgresUserRepo persists accounts.
//
// Schema:
//
//	CREATE TABLE users (
//	  id             TEXT PRIMARY KEY,
//	  telegram_id    BIGINT UNIQUE NOT NULL,
//	  username       TEXT NOT NULL DEFAULT '',
//	  registered_at  TIMESTAMPTZ NOT NULL,
//	  last_active_at TIMESTAMPTZ NOT NULL
//	);
type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, qx any, u *model.User) error {
	const q = `
INSERT INTO users (id, telegram_id, username, registered_at, last_active_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET
  telegram_id=$2, username=$3, last_active_at=$5;
`
	_, err := pickExecutor(r.pool, qx).Exec(ctx, q, u.ID, u.TelegramID, u.Username, u.RegisteredAt, u.LastActiveAt)
	return err
}

func (r *PostgresUserRepo) FindByTelegramID(ctx context.Context, qx any, telegramID int64) (*model.User, error) {
	const q = `
SELECT id, telegram_id, username, registered_at, last_active_at
  FROM users WHERE telegram_id=$1;
`
	return r.scanOne(pickExecutor(r.pool, qx).QueryRow(ctx, q, telegramID))
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	const q = `
SELECT id, telegram_id, username, registered_at, last_active_at
  FROM users WHERE id=$1;
`
	return r.scanOne(pickExecutor(r.pool, qx).QueryRow(ctx, q, id))
}

func (r *PostgresUserRepo) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.RegisteredAt, &u.LastActiveAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
