package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/ports/repository"
)

var _ repository.CreditLedger = (*PostgresCreditLedger)(nil)

// PostgresCreditLedger keeps one balance row per user plus an append-only
// ledger of every grant and deduction.
//
// Schema:
//
//	CREATE TABLE credit_accounts (
//	  user_id TEXT PRIMARY KEY REFERENCES users(id),
//	  balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0)
//	);
//	CREATE TABLE credit_ledger (
//	  id         TEXT PRIMARY KEY,
//	  user_id    TEXT NOT NULL REFERENCES users(id),
//	  amount     BIGINT NOT NULL,   -- positive grant, negative deduction
//	  reason     TEXT NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresCreditLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresCreditLedger(pool *pgxpool.Pool) *PostgresCreditLedger {
	return &PostgresCreditLedger{pool: pool}
}

func (r *PostgresCreditLedger) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx, `SELECT balance FROM credit_accounts WHERE user_id=$1;`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("credit balance: %w", err)
	}
	return balance, nil
}

func (r *PostgresCreditLedger) Grant(ctx context.Context, userID string, amount int64, reason string) error {
	if amount <= 0 {
		return domain.ErrInvalidArgument
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		const upsert = `
INSERT INTO credit_accounts (user_id, balance) VALUES ($1,$2)
ON CONFLICT (user_id) DO UPDATE SET balance = credit_accounts.balance + $2;
`
		if _, err := tx.Exec(ctx, upsert, userID, amount); err != nil {
			return err
		}
		return r.appendEntry(ctx, tx, userID, amount, reason)
	})
}

// Deduct serializes the read-modify-write on the user's balance row with
// SELECT ... FOR UPDATE, so concurrent spends cannot drive it negative.
func (r *PostgresCreditLedger) Deduct(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	var remaining int64
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var balance int64
		err := tx.QueryRow(ctx, `SELECT balance FROM credit_accounts WHERE user_id=$1 FOR UPDATE;`, userID).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrInsufficientCredits
		}
		if err != nil {
			return err
		}
		if balance < amount {
			return domain.ErrInsufficientCredits
		}
		remaining = balance - amount
		if _, err := tx.Exec(ctx, `UPDATE credit_accounts SET balance=$2 WHERE user_id=$1;`, userID, remaining); err != nil {
			return err
		}
		return r.appendEntry(ctx, tx, userID, -amount, "conversation_turn")
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func (r *PostgresCreditLedger) appendEntry(ctx context.Context, tx pgx.Tx, userID string, amount int64, reason string) error {
	const q = `INSERT INTO credit_ledger (id, user_id, amount, reason) VALUES ($1,$2,$3,$4);`
	_, err := tx.Exec(ctx, q, ulid.Make().String(), userID, amount, reason)
	return err
}

func (r *PostgresCreditLedger) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
