package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesjscully/we-relate/internal/application"
	"github.com/jamesjscully/we-relate/internal/config"
	"github.com/jamesjscully/we-relate/internal/domain/ports/adapter"
	"github.com/jamesjscully/we-relate/internal/domain/ports/repository"
	aiAdapters "github.com/jamesjscully/we-relate/internal/infra/adapters/ai"
	tele "github.com/jamesjscully/we-relate/internal/infra/adapters/telegram"
	memdb "github.com/jamesjscully/we-relate/internal/infra/db/memory"
	pg "github.com/jamesjscully/we-relate/internal/infra/db/postgres"
	httpapi "github.com/jamesjscully/we-relate/internal/infra/http"
	"github.com/jamesjscully/we-relate/internal/infra/logging"
	"github.com/jamesjscully/we-relate/internal/infra/metrics"
	red "github.com/jamesjscully/we-relate/internal/infra/redis"
	"github.com/jamesjscully/we-relate/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "run without external collaborators where possible")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		log.Warn().Msg("dev mode enabled")
	}
	metrics.MustRegister()

	checks := map[string]httpapi.Pinger{}

	// ---- Stores ----
	var userRepo repository.UserRepository
	var credits repository.CreditLedger
	if cfg.Runtime.Dev && cfg.Database.URL == "" {
		userRepo = memdb.NewUserRepo()
		credits = memdb.NewCreditLedger()
		log.Warn().Msg("dev mode: using in-memory stores")
	} else {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect failed")
		}
		defer pool.Close()
		userRepo = pg.NewPostgresUserRepo(pool)
		credits = pg.NewPostgresCreditLedger(pool)
		checks["postgres"] = pool
	}

	// ---- Redis ----
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		rateLimiter = red.NewRateLimiter(redisClient)
		checks["redis"] = redisClient
	}

	// ---- AI adapter ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.ChatModel, cfg.AI.UtilityModel)
		if err != nil {
			log.Fatal().Err(err).Msg("openai adapter init failed")
		}
		log.Info().Str("chat_model", cfg.AI.ChatModel).Str("utility_model", cfg.AI.UtilityModel).Msg("AI adapter: OpenAI")
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.ChatModel)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini adapter init failed")
		}
		log.Info().Str("base", cfg.AI.GeminiURL).Str("chat_model", cfg.AI.ChatModel).Msg("AI adapter: Gemini")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		log.Warn().Msg("dev mode: using noop AI adapter")
	default:
		log.Fatal().Msg("no AI provider configured: set ai.openai_key or ai.gemini_key")
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)
	ai = aiAdapters.NewInstrumentedAI(ai)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, credits, cfg.Credits.WelcomeGrant, log)
	newConv := func() *usecase.Conversation {
		return usecase.NewConversation(ai, cfg.AI.ChatModel, cfg.AI.UtilityModel, log)
	}
	sessionUC := usecase.NewSessionUseCase(newConv, log)
	facade := application.NewBotFacade(userUC, sessionUC, credits, cfg.Credits.CostPerTurn, log)

	// ---- Telegram ----
	var bot adapter.TelegramBotAdapter
	if cfg.Bot.Token != "" {
		realBot, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, log)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram init failed")
		}
		bot = realBot
		go func() {
			if err := realBot.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	} else {
		bot = tele.NewNoopBotAdapter(log)
		log.Warn().Msg("dev mode: no bot token, telegram polling disabled")
	}

	for _, id := range cfg.Bot.AdminIDs {
		if err := bot.SendMessage(ctx, id, "we-relate bot is up"); err != nil {
			log.Warn().Err(err).Int64("admin_id", id).Msg("startup notification failed")
		}
	}

	// ---- Ops HTTP server ----
	srv := httpapi.NewServer(cfg, log, checks)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Info().Msg("shutdown requested")

	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Warn().Err(err).Msg("ops server shutdown failed")
	}
	cancel()
}
