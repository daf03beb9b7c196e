package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ovozpay/internal/bot"
)

// TelegramHandler accepts webhook updates when the bot runs in webhook
// mode instead of long polling.
type TelegramHandler struct {
	botHandler *bot.Handler
	logger     *zap.Logger
}

func NewTelegramHandler(botHandler *bot.Handler, logger *zap.Logger) *TelegramHandler {
	return &TelegramHandler{
		botHandler: botHandler,
		logger:     logger,
	}
}

// Webhook godoc
// @Summary Telegram webhook endpoint
// @Tags telegram
// @Accept json
// @Success 200
// @Router /telegram/webhook [post]
func (h *TelegramHandler) Webhook(c *fiber.Ctx) error {
	var upd tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &upd); err != nil {
		h.logger.Warn("Malformed webhook update", zap.Error(err))
		return c.SendStatus(fiber.StatusBadRequest)
	}

	// Telegram retries on non-200, so this must not block or fail.
	h.botHandler.HandleUpdate(c.Context(), upd)
	return c.SendStatus(fiber.StatusOK)
}
