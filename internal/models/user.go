package models

import (
	"time"

	"github.com/google/uuid"
)

type Language string

const (
	LanguageRussian Language = "ru"
	LanguageUzbek   Language = "uz"
	LanguageEnglish Language = "en"
)

type User struct {
	ID             uuid.UUID  `db:"id"`
	PhoneNumber    string     `db:"phone_number"`
	FirstName      string     `db:"first_name"`
	LastName       string     `db:"last_name"`
	Username       string     `db:"username"`
	Password       string     `db:"password"`
	TelegramChatID *int64     `db:"telegram_chat_id"`
	Language       Language   `db:"language"`
	Currency       string     `db:"currency"`
	SourceID       *uuid.UUID `db:"source_id"`
	IsActive       bool       `db:"is_active"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}
