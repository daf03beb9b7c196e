package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes messages to users through the Bot API. It
// satisfies the notification dependency of the services so financial
// operations can announce themselves without knowing about Telegram.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

func NewTelegramNotifier(api *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{api: api}
}

func (n *TelegramNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := n.api.Send(msg)
	return err
}
