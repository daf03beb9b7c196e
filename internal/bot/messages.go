package bot

import "ovozpay/internal/models"

// messages holds the bot's reply texts per language. Missing keys fall
// back to Russian.
var messages = map[models.Language]map[string]string{
	models.LanguageRussian: {
		"start": "Привет! Я OvozPay — голосовой помощник для учёта финансов.\n\n" +
			"Просто напиши или скажи: «потратил на такси 25000» или «получил зарплату 5000000».\n" +
			"Пришли фото чека — я разберу его сам.\n\n" +
			"Команды:\n/balance — баланс\n/stats — статистика за месяц\n/goals — цели\n/rate USD — курс валюты\n/phone — привязать номер\n/language — сменить язык",
		"help": "Напиши сумму и что это было: «купил продукты 150000».\n" +
			"Голосовое сообщение или фото чека тоже подойдут.\n" +
			"/balance, /stats, /goals, /rate, /phone, /language",
		"unknown_command":    "Не знаю такую команду. /help",
		"parse_failed":       "Не понял сумму. Пример: «потратил на такси 25000»",
		"record_failed":      "❌ Не удалось записать операцию, попробуй ещё раз",
		"voice_failed":       "❌ Не удалось распознать голосовое сообщение",
		"photo_failed":       "❌ Не удалось разобрать чек, введи операцию текстом",
		"balance":            "Баланс",
		"stats_month":        "Статистика за месяц",
		"no_goals":           "Целей пока нет",
		"rate_failed":        "❌ Не удалось получить курс",
		"share_phone":        "Нажми кнопку, чтобы поделиться номером телефона",
		"share_phone_button": "📱 Отправить номер",
		"phone_not_yours":    "Можно привязать только свой номер",
		"phone_saved":        "✅ Номер сохранён",
		"error":              "❌ Что-то пошло не так, попробуй позже",
	},
	models.LanguageUzbek: {
		"start": "Salom! Men OvozPay — moliyaviy hisob-kitob yordamchisiman.\n\n" +
			"Yozing yoki ayting: «taksi uchun 25000 sarfladim».\n" +
			"Chek rasmini yuboring — o'zim tushunaman.\n\n" +
			"Buyruqlar:\n/balance — balans\n/stats — oylik statistika\n/goals — maqsadlar\n/rate USD — valyuta kursi\n/phone — raqam ulash\n/language — tilni almashtirish",
		"help": "Summani va nima ekanligini yozing: «oziq-ovqat 150000».\n" +
			"Ovozli xabar yoki chek rasmi ham bo'ladi.\n" +
			"/balance, /stats, /goals, /rate, /phone, /language",
		"unknown_command":    "Bunday buyruqni bilmayman. /help",
		"parse_failed":       "Summani tushunmadim. Misol: «taksi uchun 25000 sarfladim»",
		"record_failed":      "❌ Amaliyotni yozib bo'lmadi, qayta urinib ko'ring",
		"voice_failed":       "❌ Ovozli xabarni tanib bo'lmadi",
		"photo_failed":       "❌ Chekni o'qib bo'lmadi, matn bilan kiriting",
		"balance":            "Balans",
		"stats_month":        "Oylik statistika",
		"no_goals":           "Hozircha maqsadlar yo'q",
		"rate_failed":        "❌ Kursni olib bo'lmadi",
		"share_phone":        "Telefon raqamingizni ulashish uchun tugmani bosing",
		"share_phone_button": "📱 Raqamni yuborish",
		"phone_not_yours":    "Faqat o'z raqamingizni ulash mumkin",
		"phone_saved":        "✅ Raqam saqlandi",
		"error":              "❌ Xatolik yuz berdi, keyinroq urinib ko'ring",
	},
	models.LanguageEnglish: {
		"start": "Hi! I'm OvozPay, a voice-first finance tracker.\n\n" +
			"Just write or say: \"spent 25000 on taxi\" or \"received salary 5000000\".\n" +
			"Send a receipt photo and I'll read it myself.\n\n" +
			"Commands:\n/balance — balance\n/stats — monthly stats\n/goals — goals\n/rate USD — exchange rate\n/phone — link phone number\n/language — change language",
		"help": "Write the amount and what it was: \"bought groceries 150000\".\n" +
			"Voice messages and receipt photos work too.\n" +
			"/balance, /stats, /goals, /rate, /phone, /language",
		"unknown_command":    "Unknown command. /help",
		"parse_failed":       "Couldn't find an amount. Example: \"spent 25000 on taxi\"",
		"record_failed":      "❌ Failed to record the operation, try again",
		"voice_failed":       "❌ Couldn't recognize the voice message",
		"photo_failed":       "❌ Couldn't read the receipt, enter it as text",
		"balance":            "Balance",
		"stats_month":        "This month",
		"no_goals":           "No goals yet",
		"rate_failed":        "❌ Failed to fetch the rate",
		"share_phone":        "Tap the button to share your phone number",
		"share_phone_button": "📱 Share number",
		"phone_not_yours":    "You can only link your own number",
		"phone_saved":        "✅ Number saved",
		"error":              "❌ Something went wrong, try again later",
	},
}

func (h *Handler) t(user *models.User, key string) string {
	if set, ok := messages[user.Language]; ok {
		if text, ok := set[key]; ok {
			return text
		}
	}
	return messages[models.LanguageRussian][key]
}
