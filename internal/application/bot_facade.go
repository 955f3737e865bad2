package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/ports/repository"
	"github.com/jamesjscully/we-relate/internal/usecase"
)

const (
	msgNeedStart = "Send /start to begin a practice session."

	msgOutOfCredits = "You're out of credits. Practice turns cost 1 credit each; top up to continue."

	helpText = "We-Relate lets you roleplay a difficult conversation against an AI partner.\n\n" +
		"Commands:\n" +
		"/start - begin (or restart) a practice session\n" +
		"/reset - discard the current session\n" +
		"/balance - show remaining credits\n" +
		"/help - this message\n\n" +
		"During a session, reply normally to talk to your partner, or prefix a " +
		"message with `@coach` to ask the coach for advice."
)

// BotFacade composes the usecases into the high-level operations the
// transport invokes. Methods return ordered display messages; Go errors are
// reserved for failures the transport translates to user-safe text.
//
// Billing happens here, not in the conversation core: one deduction per
// successfully completed conversation turn.
type BotFacade struct {
	UserUC      usecase.UserUseCase
	SessionUC   usecase.SessionUseCase
	Credits     repository.CreditLedger
	CostPerTurn int64

	log *zerolog.Logger
}

func NewBotFacade(userUC usecase.UserUseCase, sessionUC usecase.SessionUseCase, credits repository.CreditLedger, costPerTurn int64, log *zerolog.Logger) *BotFacade {
	return &BotFacade{
		UserUC:      userUC,
		SessionUC:   sessionUC,
		Credits:     credits,
		CostPerTurn: costPerTurn,
		log:         log,
	}
}

// HandleStart registers or fetches the user and opens a fresh session,
// returning the welcome and profile prompts.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, username string) ([]usecase.DisplayMessage, error) {
	if _, err := b.UserUC.RegisterOrFetch(ctx, tgID, username); err != nil {
		return nil, fmt.Errorf("register/fetch user: %w", err)
	}
	res, err := b.SessionUC.StartSession(ctx, tgID)
	if err != nil {
		return nil, err
	}
	return res.Messages, nil
}

// HandleMessage feeds one free-text message into the user's session.
func (b *BotFacade) HandleMessage(ctx context.Context, tgID int64, text string) ([]usecase.DisplayMessage, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []usecase.DisplayMessage{{Author: usecase.AuthorSystem, Text: msgNeedStart}}, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	sess, err := b.SessionUC.Find(tgID)
	if err != nil {
		return []usecase.DisplayMessage{{Author: usecase.AuthorSystem, Text: msgNeedStart}}, nil
	}

	// Affordability precheck for billable turns. The conversation core never
	// sees credits; we gate here before spending provider tokens.
	if sess.CurrentStage() == usecase.StageConversation && b.CostPerTurn > 0 {
		balance, err := b.Credits.Balance(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("credit balance: %w", err)
		}
		if balance < b.CostPerTurn {
			return []usecase.DisplayMessage{{Author: usecase.AuthorSystem, Text: msgOutOfCredits, IsError: true}}, nil
		}
	}

	res, err := b.SessionUC.HandleTurn(ctx, tgID, text)
	if err != nil {
		return nil, err
	}

	messages := res.Messages
	if res.CompletedTurn && b.CostPerTurn > 0 {
		remaining, err := b.Credits.Deduct(ctx, user.ID, b.CostPerTurn)
		switch {
		case errors.Is(err, domain.ErrInsufficientCredits):
			// Lost a race with another spend; the reply already happened, so
			// deliver it and flag the empty balance.
			messages = append(messages, usecase.DisplayMessage{Author: usecase.AuthorSystem, Text: msgOutOfCredits, IsError: true})
		case err != nil:
			// Billing trouble must not destroy a delivered turn.
			b.log.Error().Err(err).Str("user_id", user.ID).Msg("credit deduction failed after completed turn")
		case remaining == 0:
			messages = append(messages, usecase.DisplayMessage{Author: usecase.AuthorSystem, Text: msgOutOfCredits})
		}
	}
	return messages, nil
}

// HandleReset discards the session; the next /start begins fresh.
func (b *BotFacade) HandleReset(ctx context.Context, tgID int64) []usecase.DisplayMessage {
	b.SessionUC.Reset(tgID)
	return []usecase.DisplayMessage{{Author: usecase.AuthorSystem, Text: "Session discarded. Send /start to begin a new one."}}
}

// HandleBalance reports the user's remaining credits.
func (b *BotFacade) HandleBalance(ctx context.Context, tgID int64) ([]usecase.DisplayMessage, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []usecase.DisplayMessage{{Author: usecase.AuthorSystem, Text: msgNeedStart}}, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	balance, err := b.Credits.Balance(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("credit balance: %w", err)
	}
	return []usecase.DisplayMessage{{Author: usecase.AuthorSystem, Text: fmt.Sprintf("Remaining credits: %d", balance)}}, nil
}

// HandleHelp returns the static usage text.
func (b *BotFacade) HandleHelp() []usecase.DisplayMessage {
	return []usecase.DisplayMessage{{Author: usecase.AuthorSystem, Text: helpText}}
}

// HandleGrant tops up another user's credits. The transport restricts this
// to admin Telegram IDs.
func (b *BotFacade) HandleGrant(ctx context.Context, targetTgID, amount int64) ([]usecase.DisplayMessage, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, targetTgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []usecase.DisplayMessage{{Author: usecase.AuthorSystem, Text: fmt.Sprintf("No user with Telegram ID %d.", targetTgID), IsError: true}}, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := b.Credits.Grant(ctx, user.ID, amount, "admin_grant"); err != nil {
		return nil, fmt.Errorf("grant credits: %w", err)
	}
	b.log.Info().Str("user_id", user.ID).Int64("amount", amount).Msg("admin credit grant")
	return []usecase.DisplayMessage{{Author: usecase.AuthorSystem, Text: fmt.Sprintf("Granted %d credits to user %d.", amount, targetTgID)}}, nil
}
