package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ovozpay/internal/dto"
	"ovozpay/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	currencyService  *service.CurrencyService
	logger           *zap.Logger
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, currencyService *service.CurrencyService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		currencyService:  currencyService,
		logger:           logger,
	}
}

// Balance godoc
// @Summary Get current balance
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BalanceResponse
// @Router /api/v1/balance [get]
func (h *AnalyticsHandler) Balance(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	balance, err := h.analyticsService.GetBalance(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to compute balance", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute balance",
		})
	}
	return c.JSON(balance)
}

// Stats godoc
// @Summary Get income/expense statistics for a period
// @Description Defaults to the current calendar month when from/to are omitted
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param from query string false "Period start (RFC3339)"
// @Param to query string false "Period end (RFC3339)"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/stats [get]
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var q dto.StatsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
		})
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if q.From != "" {
		if from, err = time.Parse(time.RFC3339, q.From); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "from must be RFC3339",
			})
		}
	}
	if q.To != "" {
		if to, err = time.Parse(time.RFC3339, q.To); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "to must be RFC3339",
			})
		}
	}
	if !from.Before(to) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "from must precede to",
		})
	}

	stats, err := h.analyticsService.GetStats(c.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("Failed to compute stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}
	return c.JSON(stats)
}

// Rates godoc
// @Summary Get an exchange rate against UZS
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param currency query string false "Currency code (default USD)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/rates [get]
func (h *AnalyticsHandler) Rates(c *fiber.Ctx) error {
	code := c.Query("currency", "USD")
	rate, err := h.currencyService.GetRate(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to fetch exchange rate",
		})
	}
	return c.JSON(fiber.Map{
		"currency": code,
		"rate":     rate,
		"base":     "UZS",
	})
}
