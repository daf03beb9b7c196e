package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ovozpay/internal/api"
	"ovozpay/internal/api/handlers"
	"ovozpay/internal/bot"
	"ovozpay/internal/repository"
	"ovozpay/internal/scheduler"
	"ovozpay/internal/service"
	"ovozpay/pkg/auth"
	"ovozpay/pkg/config"
	"ovozpay/pkg/logger"
	"ovozpay/pkg/postgres"
)

// @title OvozPay API
// @version 1.0
// @description Личный финансовый трекер с голосовым Telegram-ботом

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting OvozPay service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.ApplyMigrations(ctx, db, cfg.Database.MigrationsDir, appLogger); err != nil {
		appLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	goalRepo := repository.NewGoalRepository(db, appLogger)
	reminderRepo := repository.NewReminderRepository(db, appLogger)
	balanceRepo := repository.NewBalanceRepository(db, appLogger)
	sourceRepo := repository.NewSourceRepository(db, appLogger)

	// Initialize Telegram bot API
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram bot", zap.Error(err))
	}
	notifier := bot.NewTelegramNotifier(botAPI)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	categoryService := service.NewCategoryService(categoryRepo, appLogger)
	txService := service.NewTransactionService(txRepo, userRepo, notifier, appLogger)
	debtService := service.NewDebtService(txRepo, userRepo, notifier, appLogger)
	goalService := service.NewGoalService(goalRepo, txRepo, userRepo, notifier, appLogger)
	reminderService := service.NewReminderService(reminderRepo, userRepo, notifier, appLogger)
	analyticsService := service.NewAnalyticsService(txRepo, balanceRepo, userRepo, appLogger)
	speechService := service.NewSpeechService(&cfg.Speech, appLogger)
	visionService := service.NewVisionService(&cfg.Vision, appLogger)
	currencyService := service.NewCurrencyService(&cfg.Currency, appLogger)
	sourceService := service.NewSourceService(sourceRepo, userRepo, appLogger)

	// Initialize bot dispatcher
	botHandler := bot.NewHandler(botAPI, bot.HandlerDeps{
		Users:        userService,
		Transactions: txService,
		Categories:   categoryService,
		Analytics:    analyticsService,
		Goals:        goalService,
		Speech:       speechService,
		Vision:       visionService,
		Currency:     currencyService,
		Sources:      sourceService,
	}, appLogger)

	// Initialize handlers
	h := api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, appLogger),
		User:        handlers.NewUserHandler(userService, appLogger),
		Transaction: handlers.NewTransactionHandler(txService, debtService, appLogger),
		Goal:        handlers.NewGoalHandler(goalService, appLogger),
		Reminder:    handlers.NewReminderHandler(reminderService, appLogger),
		Category:    handlers.NewCategoryHandler(categoryService, appLogger),
		Source:      handlers.NewSourceHandler(sourceService, appLogger),
		Analytics:   handlers.NewAnalyticsHandler(analyticsService, currencyService, appLogger),
		Telegram:    handlers.NewTelegramHandler(botHandler, appLogger),
	}

	// Setup router
	app := api.SetupRouter(h, jwtManager, appLogger)

	// Bot updates: webhook mode is served through the router, long polling
	// runs its own goroutine.
	if cfg.Telegram.UseWebhook {
		wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL)
		if err != nil {
			appLogger.Fatal("Invalid webhook URL", zap.Error(err))
		}
		if _, err := botAPI.Request(wh); err != nil {
			appLogger.Fatal("Failed to register webhook", zap.Error(err))
		}
		appLogger.Info("Telegram webhook registered", zap.String("url", cfg.Telegram.WebhookURL))
	} else {
		go botHandler.Run(ctx)
	}

	// Background scheduler
	sched := scheduler.New(reminderService, debtService, goalService, &cfg.Scheduler, appLogger)
	go sched.Run(ctx)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	cancel()
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
