// Seeds the default categories and traffic sources. Safe to run
// repeatedly: existing entries are skipped by name.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ovozpay/internal/models"
	"ovozpay/internal/repository"
	"ovozpay/internal/service"
	"ovozpay/pkg/config"
	"ovozpay/pkg/logger"
	"ovozpay/pkg/postgres"
)

var defaultCategories = []struct {
	name  string
	typ   models.CategoryType
	emoji string
}{
	{"Продукты", models.CategoryTypeExpense, "🛒"},
	{"Кафе", models.CategoryTypeExpense, "☕"},
	{"Транспорт", models.CategoryTypeExpense, "🚌"},
	{"Жильё", models.CategoryTypeExpense, "🏠"},
	{"Здоровье", models.CategoryTypeExpense, "💊"},
	{"Одежда", models.CategoryTypeExpense, "👕"},
	{"Развлечения", models.CategoryTypeExpense, "🎬"},
	{"Связь", models.CategoryTypeExpense, "📱"},
	{"Образование", models.CategoryTypeExpense, "📚"},
	{"Прочее", models.CategoryTypeExpense, "📦"},
	{"Зарплата", models.CategoryTypeIncome, "💼"},
	{"Фриланс", models.CategoryTypeIncome, "💻"},
	{"Подарки", models.CategoryTypeIncome, "🎁"},
	{"Инвестиции", models.CategoryTypeIncome, "📈"},
}

func main() {
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

	if err := postgres.ApplyMigrations(ctx, db, cfg.Database.MigrationsDir, appLogger); err != nil {
		appLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	categoryRepo := repository.NewCategoryRepository(db, appLogger)

	appLogger.Info("Seeding default categories...")

	now := time.Now()
	created := 0
	for _, dc := range defaultCategories {
		if existing, err := categoryRepo.FindByName(ctx, uuid.Nil, dc.name); err == nil && existing != nil && existing.UserID == nil {
			appLogger.Info("Category already exists, skipping", zap.String("name", dc.name))
			continue
		}

		category := &models.Category{
			ID:        uuid.New(),
			UserID:    nil,
			Name:      dc.name,
			Type:      dc.typ,
			Emoji:     dc.emoji,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			appLogger.Error("Failed to create category", zap.String("name", dc.name), zap.Error(err))
			continue
		}
		created++
		appLogger.Info("Created default category", zap.String("name", dc.name))
	}

	sourceRepo := repository.NewSourceRepository(db, appLogger)
	userRepo := repository.NewUserRepository(db, appLogger)
	sourceService := service.NewSourceService(sourceRepo, userRepo, appLogger)

	appLogger.Info("Seeding default traffic sources...")
	sources, err := sourceService.CreateDefaults(ctx)
	if err != nil {
		appLogger.Error("Failed to seed sources", zap.Error(err))
	}

	appLogger.Info("Seeding completed",
		zap.Int("categories_created", created),
		zap.Int("sources_created", len(sources)),
	)
}
