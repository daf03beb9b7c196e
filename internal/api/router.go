package api

import (
	"ovozpay/internal/api/handlers"
	"ovozpay/pkg/auth"
	"ovozpay/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Transaction *handlers.TransactionHandler
	Goal        *handlers.GoalHandler
	Reminder    *handlers.ReminderHandler
	Category    *handlers.CategoryHandler
	Source      *handlers.SourceHandler
	Analytics   *handlers.AnalyticsHandler
	Telegram    *handlers.TelegramHandler
}

func SetupRouter(h Handlers, jwtManager *auth.JWTManager, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Telegram pushes updates here in webhook mode (public, no JWT).
	if h.Telegram != nil {
		app.Post("/telegram/webhook", h.Telegram.Webhook)
	}

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	protected.Get("/me", h.User.Me)
	protected.Put("/me", h.User.UpdateMe)

	transactions := protected.Group("/transactions")
	transactions.Post("", h.Transaction.Create)
	transactions.Get("", h.Transaction.List)
	transactions.Get("/:id", h.Transaction.Get)
	transactions.Delete("/:id", h.Transaction.Delete)
	transactions.Post("/:id/payments", h.Transaction.AddPayment)
	transactions.Post("/:id/close", h.Transaction.CloseDebt)

	goals := protected.Group("/goals")
	goals.Post("", h.Goal.Create)
	goals.Get("", h.Goal.List)
	goals.Get("/:id", h.Goal.Get)
	goals.Post("/:id/progress", h.Goal.AddProgress)
	goals.Post("/:id/pause", h.Goal.Pause)
	goals.Post("/:id/resume", h.Goal.Resume)
	goals.Post("/:id/fail", h.Goal.Fail)
	goals.Get("/:id/transactions", h.Goal.ListTransactions)

	reminders := protected.Group("/reminders")
	reminders.Post("", h.Reminder.Create)
	reminders.Get("", h.Reminder.List)
	reminders.Put("/:id", h.Reminder.Update)
	reminders.Delete("/:id", h.Reminder.Delete)

	categories := protected.Group("/categories")
	categories.Post("", h.Category.Create)
	categories.Get("", h.Category.List)
	categories.Delete("/:id", h.Category.Delete)

	sources := protected.Group("/sources")
	sources.Post("", h.Source.Create)
	sources.Get("", h.Source.List)
	sources.Post("/defaults", h.Source.CreateDefaults)
	sources.Delete("/:id", h.Source.Delete)

	protected.Get("/balance", h.Analytics.Balance)
	protected.Get("/stats", h.Analytics.Stats)
	protected.Get("/rates", h.Analytics.Rates)

	return app
}
