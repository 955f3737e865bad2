package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jamesjscully/we-relate/internal/domain/ports/adapter"
	"github.com/jamesjscully/we-relate/internal/infra/metrics"
	red "github.com/jamesjscully/we-relate/internal/infra/redis"
)

type cbHandler func(ctx context.Context, chatID int64) error

// Inline button callbacks. The bot's button surface is small: restarting a
// session and checking the balance.
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"cmd:start":   r.startCBRoute,
		"cmd:balance": r.balanceCBRoute,
		"cmd:help":    r.helpCBRoute,
	}
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop the telegram spinner when we return.
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	chatID := query.From.ID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}
	if chatID == 0 {
		return nil
	}

	data := strings.TrimSpace(query.Data)
	if r.rateLimiter != nil {
		if allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(chatID, "cb:"+data), 30, time.Minute); err == nil && !allowed {
			return r.SendMessage(ctx, chatID, "Rate limit exceeded. Please try again later.")
		}
	}

	if fn, ok := r.cbRoutes()[data]; ok {
		return fn(ctx, chatID)
	}
	return errors.New("unknown callback data")
}

func (r *RealTelegramBotAdapter) startCBRoute(ctx context.Context, chatID int64) error {
	msgs, err := r.facade.HandleStart(ctx, chatID, "")
	if err != nil {
		return r.replyFailure(ctx, chatID, err)
	}
	metrics.IncSessionStarted()
	return r.deliver(ctx, chatID, msgs)
}

func (r *RealTelegramBotAdapter) balanceCBRoute(ctx context.Context, chatID int64) error {
	msgs, err := r.facade.HandleBalance(ctx, chatID)
	if err != nil {
		return r.replyFailure(ctx, chatID, err)
	}
	return r.deliver(ctx, chatID, msgs)
}

func (r *RealTelegramBotAdapter) helpCBRoute(ctx context.Context, chatID int64) error {
	return r.deliver(ctx, chatID, r.facade.HandleHelp())
}

// sendRestartButton offers a one-tap way back in after /reset.
func (r *RealTelegramBotAdapter) sendRestartButton(ctx context.Context, chatID int64) error {
	rows := [][]adapter.InlineButton{
		{{Text: "🔄 Start a new session", Data: "cmd:start"}},
		{{Text: "💳 Balance", Data: "cmd:balance"}},
	}
	return r.SendButtons(ctx, chatID, "Ready when you are:", rows)
}
