package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ovozpay/internal/models"
)

// The bot fills in the phone number after registration via the same Update
// call as profile edits, so the statement must cover every mutable column.
func TestUserUpdateQueryCoversAllMutableColumns(t *testing.T) {
	chatID := int64(42)
	sourceID := uuid.New()
	user := &models.User{
		ID:             uuid.New(),
		PhoneNumber:    "+998901234567",
		FirstName:      "Алишер",
		Username:       "alisher",
		TelegramChatID: &chatID,
		Language:       models.LanguageRussian,
		Currency:       "UZS",
		SourceID:       &sourceID,
		IsActive:       true,
		UpdatedAt:      time.Now(),
	}

	sql, args, err := userUpdateQuery(user).ToSql()
	require.NoError(t, err)

	for _, column := range []string{
		"phone_number", "first_name", "last_name", "username",
		"telegram_chat_id", "language", "currency", "source_id", "is_active", "updated_at",
	} {
		assert.Contains(t, sql, column+" = ", "column %s missing from update", column)
	}
	assert.Contains(t, args, "+998901234567")
	assert.Contains(t, args, &sourceID)
}
