// Sends an announcement to every user with a linked Telegram chat:
//
//	go run ./cmd/broadcast -message "Текст объявления"
package main

import (
	"context"
	"flag"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ovozpay/internal/bot"
	"ovozpay/internal/repository"
	"ovozpay/pkg/config"
	"ovozpay/pkg/logger"
	"ovozpay/pkg/postgres"
)

func main() {
	message := flag.String("message", "", "text to broadcast")
	flag.Parse()
	if *message == "" {
		log.Fatal("-message is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram bot", zap.Error(err))
	}
	notifier := bot.NewTelegramNotifier(botAPI)

	userRepo := repository.NewUserRepository(db, appLogger)
	chatIDs, err := userRepo.ListChatIDs(ctx)
	if err != nil {
		appLogger.Fatal("Failed to list chat IDs", zap.Error(err))
	}

	sent := 0
	for _, chatID := range chatIDs {
		if err := notifier.Notify(ctx, chatID, *message); err != nil {
			appLogger.Warn("Broadcast delivery failed", zap.Int64("chat_id", chatID), zap.Error(err))
			continue
		}
		sent++
		// Bot API rate limit is ~30 messages per second.
		time.Sleep(50 * time.Millisecond)
	}

	appLogger.Info("Broadcast finished", zap.Int("sent", sent), zap.Int("total", len(chatIDs)))
}
