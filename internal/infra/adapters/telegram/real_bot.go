// Package telegram is the inbound transport: it polls Telegram for updates,
// rate-limits per user, and delegates every interaction to the BotFacade.
package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/application"
	"github.com/jamesjscully/we-relate/internal/config"
	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/ports/adapter"
	"github.com/jamesjscully/we-relate/internal/infra/metrics"
	red "github.com/jamesjscully/we-relate/internal/infra/redis"
	"github.com/jamesjscully/we-relate/internal/usecase"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi long polling and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, log *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           log,
		adminIDsMap:   adminMap,
		updateWorkers: workers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(tgID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) SendButtons(ctx context.Context, tgID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			btns = append(btns, kb)
		}
		kbRows = append(kbRows, btns)
	}

	msg := tgbotapi.NewMessage(tgID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}
	chatID := msg.Chat.ID

	command := "message"
	if msg.IsCommand() {
		command = "/" + msg.Command()
	}
	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(msg.From.ID, command), 20, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			return r.SendMessage(ctx, chatID, "Rate limit exceeded. Please try again later.")
		}
	}

	if msg.IsCommand() {
		if handler, ok := r.commandRoutes()[msg.Command()]; ok {
			return handler(ctx, msg)
		}
		return r.SendMessage(ctx, chatID, "Unknown command. Send /help for the list.")
	}

	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}
	return r.handleFreeText(ctx, chatID, msg.Text)
}

// handleFreeText feeds one conversation turn through the facade and renders
// the resulting messages in order.
func (r *RealTelegramBotAdapter) handleFreeText(ctx context.Context, chatID int64, text string) error {
	stage := ""
	if sess, err := r.facade.SessionUC.Find(chatID); err == nil {
		stage = sess.CurrentStage().String()
	}

	msgs, err := r.facade.HandleMessage(ctx, chatID, text)
	if err != nil {
		return r.replyFailure(ctx, chatID, err)
	}
	metrics.IncTurn(stage)
	return r.deliver(ctx, chatID, msgs)
}

// deliver renders facade output as sequential Telegram messages, one per
// author turn.
func (r *RealTelegramBotAdapter) deliver(ctx context.Context, chatID int64, msgs []usecase.DisplayMessage) error {
	for _, m := range msgs {
		if err := r.SendMessage(ctx, chatID, renderDisplay(m)); err != nil {
			return err
		}
	}
	return nil
}

// replyFailure translates internal errors into the two user-safe texts. AI
// provider detail stays in the logs.
func (r *RealTelegramBotAdapter) replyFailure(ctx context.Context, chatID int64, err error) error {
	if errors.Is(err, domain.ErrAIService) {
		metrics.IncTurnFailure("ai")
		return r.SendMessage(ctx, chatID, domain.AIServiceUserMessage)
	}
	metrics.IncTurnFailure("unexpected")
	r.log.Error().Err(err).Int64("chat_id", chatID).Msg("turn failed")
	return r.SendMessage(ctx, chatID, domain.UnexpectedUserMessage)
}

func renderDisplay(m usecase.DisplayMessage) string {
	text := m.Text
	switch m.Author {
	case usecase.AuthorPartner:
		text = "👤 *Partner*\n" + text
	case usecase.AuthorCoach:
		text = "🧭 *Coach*\n" + text
	}
	if m.IsError {
		text = "⚠️ " + text
	}
	return text
}
