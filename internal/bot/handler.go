package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ovozpay/internal/models"
	"ovozpay/internal/service"
)

// Handler routes Telegram updates to the services: commands, free-text
// records, voice messages and receipt photos.
type Handler struct {
	api *tgbotapi.BotAPI

	users        *service.UserService
	transactions *service.TransactionService
	categories   *service.CategoryService
	analytics    *service.AnalyticsService
	goals        *service.GoalService
	speech       *service.SpeechService
	vision       *service.VisionService
	currency     *service.CurrencyService
	sources      *service.SourceService

	httpClient *http.Client
	logger     *zap.Logger
}

type HandlerDeps struct {
	Users        *service.UserService
	Transactions *service.TransactionService
	Categories   *service.CategoryService
	Analytics    *service.AnalyticsService
	Goals        *service.GoalService
	Speech       *service.SpeechService
	Vision       *service.VisionService
	Currency     *service.CurrencyService
	Sources      *service.SourceService
}

func NewHandler(api *tgbotapi.BotAPI, deps HandlerDeps, logger *zap.Logger) *Handler {
	return &Handler{
		api:          api,
		users:        deps.Users,
		transactions: deps.Transactions,
		categories:   deps.Categories,
		analytics:    deps.Analytics,
		goals:        deps.Goals,
		speech:       deps.Speech,
		vision:       deps.Vision,
		currency:     deps.Currency,
		sources:      deps.Sources,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		logger:       logger,
	}
}

// Run consumes updates via long polling until the context is cancelled.
// Webhook deployments feed updates through HandleUpdate directly instead.
func (h *Handler) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := h.api.GetUpdatesChan(u)

	h.logger.Info("Telegram bot started", zap.String("username", h.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			h.api.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			h.HandleUpdate(ctx, upd)
		}
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		h.handleCallback(ctx, upd.CallbackQuery)
		return
	}

	msg := upd.Message
	if msg == nil || !msg.Chat.IsPrivate() {
		return
	}

	user, isNew, err := h.users.FindOrCreateByTelegram(ctx, msg.Chat.ID,
		msg.From.FirstName, msg.From.LastName, msg.From.UserName)
	if err != nil {
		h.logger.Error("Failed to resolve bot user",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err),
		)
		return
	}

	if isNew {
		h.sendLanguageKeyboard(msg.Chat.ID)
		return
	}

	switch {
	case msg.Contact != nil:
		h.handleContact(ctx, user, msg)
	case msg.Voice != nil:
		h.handleVoice(ctx, user, msg)
	case len(msg.Photo) > 0:
		h.handlePhoto(ctx, user, msg)
	case msg.IsCommand():
		h.handleCommand(ctx, user, msg)
	case strings.TrimSpace(msg.Text) != "":
		h.handleText(ctx, user, msg.Chat.ID, msg.Text)
	}
}

func (h *Handler) handleCommand(ctx context.Context, user *models.User, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		// Deep-link payload (t.me/bot?start=instagram) carries the traffic
		// source name.
		if payload := msg.CommandArguments(); payload != "" && h.sources != nil {
			if err := h.sources.Attribute(ctx, user.ID, payload); err != nil {
				h.logger.Warn("Source attribution failed",
					zap.String("payload", payload),
					zap.Error(err),
				)
			}
		}
		h.reply(msg.Chat.ID, h.t(user, "start"))
	case "help":
		h.reply(msg.Chat.ID, h.t(user, "help"))
	case "balance":
		h.handleBalance(ctx, user, msg.Chat.ID)
	case "stats":
		h.handleStats(ctx, user, msg.Chat.ID)
	case "goals":
		h.handleGoals(ctx, user, msg.Chat.ID)
	case "phone":
		h.requestPhone(user, msg.Chat.ID)
	case "language":
		h.sendLanguageKeyboard(msg.Chat.ID)
	case "rate":
		h.handleRate(ctx, user, msg.Chat.ID, msg.CommandArguments())
	default:
		h.reply(msg.Chat.ID, h.t(user, "unknown_command"))
	}
}

func (h *Handler) handleText(ctx context.Context, user *models.User, chatID int64, text string) {
	parsed, err := ParseTransactionText(text, string(user.Language))
	if err != nil {
		h.reply(chatID, h.t(user, "parse_failed"))
		return
	}
	h.recordParsed(ctx, user, chatID, parsed)
}

func (h *Handler) recordParsed(ctx context.Context, user *models.User, chatID int64, parsed *ParsedTransaction) {
	in := service.CreateTransactionInput{
		Amount:      parsed.Amount,
		Description: parsed.Description,
		Date:        time.Now(),
	}
	if parsed.CategoryHint != "" {
		if category, err := h.categories.Resolve(ctx, user.ID, parsed.CategoryHint); err == nil {
			in.CategoryID = &category.ID
		}
	}

	var err error
	if parsed.Type == models.TransactionTypeIncome {
		_, err = h.transactions.CreateIncome(ctx, user.ID, in)
	} else {
		_, err = h.transactions.CreateExpense(ctx, user.ID, in, false)
	}
	if err != nil {
		h.logger.Error("Failed to record transaction from bot",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		h.reply(chatID, h.t(user, "record_failed"))
	}
	// Success is announced by the transaction service notification.
}

func (h *Handler) handleVoice(ctx context.Context, user *models.User, msg *tgbotapi.Message) {
	data, err := h.downloadFile(ctx, msg.Voice.FileID)
	if err != nil {
		h.logger.Error("Voice download failed", zap.Error(err))
		h.reply(msg.Chat.ID, h.t(user, "voice_failed"))
		return
	}

	text, err := h.speech.Transcribe(ctx, bytes.NewReader(data), "voice.ogg", string(user.Language))
	if err != nil {
		h.logger.Warn("Transcription failed", zap.Error(err))
		h.reply(msg.Chat.ID, h.t(user, "voice_failed"))
		return
	}

	h.reply(msg.Chat.ID, "🎤 "+text)
	h.handleText(ctx, user, msg.Chat.ID, text)
}

func (h *Handler) handlePhoto(ctx context.Context, user *models.User, msg *tgbotapi.Message) {
	// Telegram sends multiple sizes, last one is the largest.
	photo := msg.Photo[len(msg.Photo)-1]
	data, err := h.downloadFile(ctx, photo.FileID)
	if err != nil {
		h.logger.Error("Photo download failed", zap.Error(err))
		h.reply(msg.Chat.ID, h.t(user, "photo_failed"))
		return
	}

	analysis, err := h.vision.AnalyzeReceipt(ctx, data, "image/jpeg")
	if err != nil || analysis.Amount <= 0 {
		h.logger.Warn("Receipt analysis failed", zap.Error(err))
		h.reply(msg.Chat.ID, h.t(user, "photo_failed"))
		return
	}

	parsed := &ParsedTransaction{
		Amount:       analysis.Amount,
		Type:         models.TransactionTypeExpense,
		CategoryHint: analysis.Category,
		Description:  analysis.Description,
	}
	h.recordParsed(ctx, user, msg.Chat.ID, parsed)
}

func (h *Handler) handleBalance(ctx context.Context, user *models.User, chatID int64) {
	balance, err := h.analytics.GetBalance(ctx, user.ID)
	if err != nil {
		h.reply(chatID, h.t(user, "error"))
		return
	}
	h.reply(chatID, fmt.Sprintf("💰 %s: %.2f %s", h.t(user, "balance"), balance.Amount, balance.Currency))
}

func (h *Handler) handleStats(ctx context.Context, user *models.User, chatID int64) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	stats, err := h.analytics.GetStats(ctx, user.ID, from, now)
	if err != nil {
		h.reply(chatID, h.t(user, "error"))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n", h.t(user, "stats_month"))
	fmt.Fprintf(&b, "➕ %.2f\n➖ %.2f\n= %.2f\n", stats.TotalIncome, stats.TotalExpense, stats.Net)
	for _, ct := range stats.ByCategory {
		fmt.Fprintf(&b, "• %s: %.2f\n", ct.CategoryName, ct.Total)
	}
	h.reply(chatID, b.String())
}

func (h *Handler) handleGoals(ctx context.Context, user *models.User, chatID int64) {
	goals, err := h.goals.List(ctx, user.ID)
	if err != nil {
		h.reply(chatID, h.t(user, "error"))
		return
	}
	if len(goals) == 0 {
		h.reply(chatID, h.t(user, "no_goals"))
		return
	}

	var b strings.Builder
	for _, g := range goals {
		fmt.Fprintf(&b, "🎯 %s: %.2f / %.2f (%.0f%%)\n", g.Title, g.CurrentAmount, g.TargetAmount, g.ProgressPercentage())
	}
	h.reply(chatID, b.String())
}

func (h *Handler) handleRate(ctx context.Context, user *models.User, chatID int64, args string) {
	code := strings.ToUpper(strings.TrimSpace(args))
	if code == "" {
		code = "USD"
	}
	rate, err := h.currency.GetRate(ctx, code)
	if err != nil {
		h.reply(chatID, h.t(user, "rate_failed"))
		return
	}
	h.reply(chatID, fmt.Sprintf("💱 1 %s = %.2f UZS", code, rate))
}

func (h *Handler) requestPhone(user *models.User, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, h.t(user, "share_phone"))
	btn := tgbotapi.NewKeyboardButtonContact(h.t(user, "share_phone_button"))
	kb := tgbotapi.NewReplyKeyboard([]tgbotapi.KeyboardButton{btn})
	kb.OneTimeKeyboard = true
	msg.ReplyMarkup = kb
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Warn("Failed to send phone request", zap.Error(err))
	}
}

func (h *Handler) handleContact(ctx context.Context, user *models.User, msg *tgbotapi.Message) {
	// Only accept the user's own contact card.
	if msg.Contact.UserID != msg.From.ID {
		h.reply(msg.Chat.ID, h.t(user, "phone_not_yours"))
		return
	}
	phone := msg.Contact.PhoneNumber
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	if err := h.users.SetPhone(ctx, user.ID, phone); err != nil {
		h.logger.Error("Failed to save phone", zap.Error(err))
		h.reply(msg.Chat.ID, h.t(user, "error"))
		return
	}
	h.reply(msg.Chat.ID, h.t(user, "phone_saved"))
}

func (h *Handler) sendLanguageKeyboard(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Выберите язык / Tilni tanlang / Choose a language:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang:ru"),
			tgbotapi.NewInlineKeyboardButtonData("🇺🇿 O'zbekcha", "lang:uz"),
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang:en"),
		},
	)
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Warn("Failed to send language keyboard", zap.Error(err))
	}
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	defer h.api.Request(tgbotapi.NewCallback(q.ID, ""))

	parts := strings.SplitN(q.Data, ":", 2)
	if len(parts) != 2 {
		return
	}

	switch parts[0] {
	case "lang":
		user, _, err := h.users.FindOrCreateByTelegram(ctx, q.Message.Chat.ID,
			q.From.FirstName, q.From.LastName, q.From.UserName)
		if err != nil {
			return
		}
		lang := models.Language(parts[1])
		if err := h.users.SetLanguage(ctx, user.ID, lang); err != nil {
			h.logger.Warn("Failed to set language", zap.Error(err))
			return
		}
		user.Language = lang
		h.reply(q.Message.Chat.ID, h.t(user, "start"))
	}
}

func (h *Handler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := h.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("file download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Warn("Failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
