package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jamesjscully/we-relate/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":   r.handleStartCommand,
		"reset":   r.handleResetCommand,
		"balance": r.handleBalanceCommand,
		"help":    r.handleHelpCommand,

		"grant": r.adminOnly(r.handleGrantCommand),
	}
}

func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if _, isAdmin := r.adminIDsMap[message.From.ID]; !isAdmin {
			return r.SendMessage(ctx, message.Chat.ID, "You are not authorized to use this command.")
		}
		return next(ctx, message)
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	msgs, err := r.facade.HandleStart(ctx, message.From.ID, message.From.UserName)
	if err != nil {
		return r.replyFailure(ctx, message.Chat.ID, err)
	}
	metrics.IncSessionStarted()
	return r.deliver(ctx, message.Chat.ID, msgs)
}

func (r *RealTelegramBotAdapter) handleResetCommand(ctx context.Context, message *tgbotapi.Message) error {
	msgs := r.facade.HandleReset(ctx, message.From.ID)
	if err := r.deliver(ctx, message.Chat.ID, msgs); err != nil {
		return err
	}
	return r.sendRestartButton(ctx, message.Chat.ID)
}

func (r *RealTelegramBotAdapter) handleBalanceCommand(ctx context.Context, message *tgbotapi.Message) error {
	msgs, err := r.facade.HandleBalance(ctx, message.From.ID)
	if err != nil {
		return r.replyFailure(ctx, message.Chat.ID, err)
	}
	return r.deliver(ctx, message.Chat.ID, msgs)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.deliver(ctx, message.Chat.ID, r.facade.HandleHelp())
}

// handleGrantCommand implements /grant <telegram_id> <amount>.
func (r *RealTelegramBotAdapter) handleGrantCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	if len(args) != 2 {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /grant <telegram_id> <amount>")
	}
	targetID, err1 := strconv.ParseInt(args[0], 10, 64)
	amount, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil || amount <= 0 {
		return r.SendMessage(ctx, message.Chat.ID, "Both arguments must be positive integers.")
	}

	msgs, err := r.facade.HandleGrant(ctx, targetID, amount)
	if err != nil {
		return r.replyFailure(ctx, message.Chat.ID, err)
	}
	return r.deliver(ctx, message.Chat.ID, msgs)
}
