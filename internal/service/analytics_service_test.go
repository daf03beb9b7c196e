package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ovozpay/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *fakeTransactionStore, *fakeBalanceStore, *models.User) {
	t.Helper()

	users := newFakeUserStore()
	transactions := newFakeTransactionStore()
	balances := newFakeBalanceStore()
	user := newTestUser(users, 555)

	svc := NewAnalyticsService(transactions, balances, users, zap.NewNop())
	return svc, transactions, balances, user
}

func addLedgerEntry(store *fakeTransactionStore, userID uuid.UUID, amount float64, txType models.TransactionType, date time.Time) {
	tx := &models.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Type:      txType,
		Date:      date,
		CreatedAt: date,
		UpdatedAt: date,
	}
	store.transactions[tx.ID] = tx
}

func TestGetBalanceRefreshesCache(t *testing.T) {
	svc, transactions, balances, user := newAnalyticsFixture(t)
	ctx := context.Background()

	now := time.Now()
	addLedgerEntry(transactions, user.ID, 150000, models.TransactionTypeIncome, now)
	addLedgerEntry(transactions, user.ID, 50000, models.TransactionTypeExpense, now)

	resp, err := svc.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, resp.Amount)
	assert.Equal(t, "UZS", resp.Currency)

	cached, err := balances.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, cached.Amount)
}

func TestGetBalanceSurvivesCacheFailure(t *testing.T) {
	svc, transactions, balances, user := newAnalyticsFixture(t)
	ctx := context.Background()

	addLedgerEntry(transactions, user.ID, 80000, models.TransactionTypeIncome, time.Now())
	balances.upsertErr = errors.New("connection reset")

	// The cached row is best effort; the ledger answer still comes back.
	resp, err := svc.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 80000.0, resp.Amount)
}

func TestGetStatsAggregatesPeriod(t *testing.T) {
	svc, transactions, _, user := newAnalyticsFixture(t)
	ctx := context.Background()

	now := time.Now()
	addLedgerEntry(transactions, user.ID, 200000, models.TransactionTypeIncome, now)
	addLedgerEntry(transactions, user.ID, 80000, models.TransactionTypeExpense, now)
	// Outside the requested period, must not count.
	addLedgerEntry(transactions, user.ID, 999999, models.TransactionTypeExpense, now.AddDate(0, -2, 0))

	resp, err := svc.GetStats(ctx, user.ID, now.Add(-24*time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 200000.0, resp.TotalIncome)
	assert.Equal(t, 80000.0, resp.TotalExpense)
	assert.Equal(t, 120000.0, resp.Net)
}
