package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/brain-recall/internal/ai"
	"github.com/aliskhannn/brain-recall/internal/auth"
	"github.com/aliskhannn/brain-recall/internal/config"
	"github.com/aliskhannn/brain-recall/internal/delivery/rest"
	"github.com/aliskhannn/brain-recall/internal/delivery/telegram"
	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres/repository"
	"github.com/aliskhannn/brain-recall/internal/logger"
	"github.com/aliskhannn/brain-recall/internal/service"
)

func main() {
	os.Exit(start())
}

// start returns the process exit code. Deferred cleanups of run have finished
// by the time it returns.
func start() int {
	cfg, err := config.Load()
	if err != nil {
		log.Println(err)
		return 1
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Println(err)
		return 1
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Error("brainrecall stopped with error", zap.Error(err))
		return 1
	}

	return 0
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateMode, err := service.ParseGateMode(cfg.Review.GateMode)
	if err != nil {
		return err
	}
	defaultLocation, err := entities.ParseTimezoneLocation(cfg.Review.DefaultTimezone)
	if err != nil {
		return err
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	// Initialize repositories and services.
	tx := postgres.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	topicRepo := repository.NewTopicRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var generator service.QuestionGenerator
	if g := ai.NewGenerator(ai.Config{
		BaseURL:    cfg.AI.BaseURL,
		APIKey:     cfg.AI.APIKey,
		Model:      cfg.AI.Model,
		Timeout:    cfg.AI.Timeout,
		MaxRetries: cfg.AI.MaxRetries,
	}, lg); g != nil {
		generator = g
	} else {
		lg.Warn("OPENAI_API_KEY is not set, question generation disabled")
	}

	if cfg.Auth.PasswordReset {
		lg.Warn("unauthenticated password reset is enabled")
	}

	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.PasswordReset, lg)
	topicService := service.NewTopicService(topicRepo, attemptRepo, userRepo, tx, gateMode, defaultLocation, lg)
	reviewService := service.NewReviewService(topicRepo, questionRepo, attemptRepo, userRepo, tx, generator, defaultLocation, lg)
	reminderService := service.NewReminderService(userRepo, topicRepo, service.ReminderConfig{
		Cron: cfg.Reminders.Cron,
		Hour: cfg.Reminders.Hour,
	}, defaultLocation, lg)

	server := rest.NewServer(rest.Config{
		Address:        cfg.HTTP.Address,
		BasePath:       cfg.HTTP.BasePath,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
		BodyLimit:      cfg.HTTP.BodyLimit,
	}, authService, topicService, reviewService, tokens, lg)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx) })

	if cfg.TelegramAPIToken == "" {
		lg.Info("TELEGRAM_API_TOKEN is not set, telegram bot and reminders disabled")
		return g.Wait()
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		stop()
		_ = g.Wait()
		return err
	}
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Link this chat"},
		{Command: "due", Description: "Topics due today"},
		{Command: "review", Description: "Review the next due topic"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(
		bot,
		lg,
		authService,
		topicService,
		reviewService,
		reminderService,
		telegram.NewSessionStorage(),
	)
	g.Go(func() error { return handler.Run(ctx) })

	if cfg.Reminders.Enabled {
		reminderService.SetNotifier(telegram.NewNotifier(bot))
		g.Go(func() error { return reminderService.Start(ctx) })
	}

	return g.Wait()
}
