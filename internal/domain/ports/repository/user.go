package repository

import (
	"context"

	"github.com/jamesjscully/we-relate/internal/domain/model"
)

// UserRepository persists accounts for the billing collaborator.
// qx optionally carries a transaction handle (pgx.Tx); nil means "use pool".
type UserRepository interface {
	Save(ctx context.Context, qx any, u *model.User) error
	FindByTelegramID(ctx context.Context, qx any, telegramID int64) (*model.User, error)
	FindByID(ctx context.Context, qx any, id string) (*model.User, error)
}
