package bot

import (
	"testing"

	"ovozpay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionTextExpense(t *testing.T) {
	got, err := ParseTransactionText("потратил на такси 25000", "ru")
	require.NoError(t, err)
	assert.Equal(t, 25000.0, got.Amount)
	assert.Equal(t, models.TransactionTypeExpense, got.Type)
	assert.Equal(t, "Транспорт", got.CategoryHint)
}

func TestParseTransactionTextIncome(t *testing.T) {
	got, err := ParseTransactionText("получил зарплату 5000000", "ru")
	require.NoError(t, err)
	assert.Equal(t, 5000000.0, got.Amount)
	assert.Equal(t, models.TransactionTypeIncome, got.Type)
	assert.Equal(t, "Зарплата", got.CategoryHint)
}

func TestParseTransactionTextDefaultsToExpense(t *testing.T) {
	got, err := ParseTransactionText("обед 48000", "ru")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeExpense, got.Type)
	assert.Equal(t, 48000.0, got.Amount)
}

func TestParseTransactionTextDecimalAmount(t *testing.T) {
	got, err := ParseTransactionText("spent 12,50 on coffee", "en")
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Amount)
	assert.Equal(t, models.TransactionTypeExpense, got.Type)
}

func TestParseTransactionTextThousandMultiplier(t *testing.T) {
	got, err := ParseTransactionText("потратил 25 тысяч на продукты", "ru")
	require.NoError(t, err)
	assert.Equal(t, 25000.0, got.Amount)
	assert.Equal(t, "Продукты", got.CategoryHint)
}

func TestParseTransactionTextUzbek(t *testing.T) {
	got, err := ParseTransactionText("taksi uchun 30000 sarfladim", "uz")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeExpense, got.Type)
	assert.Equal(t, 30000.0, got.Amount)
	assert.Equal(t, "Транспорт", got.CategoryHint)
}

func TestParseTransactionTextNoAmount(t *testing.T) {
	_, err := ParseTransactionText("привет, как дела?", "ru")
	assert.ErrorIs(t, err, ErrNoAmount)

	_, err = ParseTransactionText("", "ru")
	assert.ErrorIs(t, err, ErrNoAmount)
}

func TestParseTransactionTextMixedKeywordsPrefersExpense(t *testing.T) {
	// A spent salary is an expense, not an income.
	got, err := ParseTransactionText("потратил всю зарплату 3000000", "ru")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeExpense, got.Type)
}
