package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/domain/ports/repository"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	// RegisterOrFetch returns the account for a Telegram user, creating it
	// (with the welcome credit grant) on first contact.
	RegisterOrFetch(ctx context.Context, telegramID int64, username string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type userUC struct {
	users        repository.UserRepository
	credits      repository.CreditLedger
	welcomeGrant int64
	log          *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, credits repository.CreditLedger, welcomeGrant int64, log *zerolog.Logger) *userUC {
	return &userUC{users: users, credits: credits, welcomeGrant: welcomeGrant, log: log}
}

func (u *userUC) RegisterOrFetch(ctx context.Context, telegramID int64, username string) (*model.User, error) {
	existing, err := u.users.FindByTelegramID(ctx, nil, telegramID)
	if err == nil {
		existing.LastActiveAt = time.Now()
		if saveErr := u.users.Save(ctx, nil, existing); saveErr != nil {
			u.log.Warn().Err(saveErr).Int64("tg_id", telegramID).Msg("failed to bump last_active_at")
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	user := model.NewUser(uuid.NewString(), telegramID, username)
	if err := u.users.Save(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	if u.welcomeGrant > 0 {
		if err := u.credits.Grant(ctx, user.ID, u.welcomeGrant, "welcome_grant"); err != nil {
			return nil, fmt.Errorf("welcome grant: %w", err)
		}
	}
	u.log.Info().Str("user_id", user.ID).Int64("tg_id", telegramID).Msg("registered new user")
	return user, nil
}

func (u *userUC) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return u.users.FindByTelegramID(ctx, nil, telegramID)
}
