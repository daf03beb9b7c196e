package service

import (
	"context"
	"testing"
	"time"

	"ovozpay/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDebtFixture(t *testing.T, amount float64) (*DebtService, *fakeTransactionStore, *models.User, *models.Transaction) {
	t.Helper()

	users := newFakeUserStore()
	transactions := newFakeTransactionStore()
	notifier := &fakeNotifier{}
	user := newTestUser(users, 777)

	due := time.Now().Add(14 * 24 * time.Hour)
	debt := &models.Transaction{
		ID:        uuid.New(),
		UserID:    user.ID,
		Amount:    amount,
		Type:      models.TransactionTypeDebt,
		Date:      time.Now(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Debt: &models.Debt{
			DueDate:          &due,
			Status:           models.DebtStatusOpen,
			CounterpartyName: "Алишер",
			Direction:        models.DebtDirectionFromMe,
		},
	}
	debt.Debt.TransactionID = debt.ID
	transactions.transactions[debt.ID] = debt

	svc := NewDebtService(transactions, users, notifier, zap.NewNop())
	return svc, transactions, user, debt
}

func TestAddPaymentLifecycle(t *testing.T) {
	svc, _, user, debt := newDebtFixture(t, 100000)
	ctx := context.Background()

	// First partial payment moves the debt to partial.
	got, err := svc.AddPayment(ctx, user.ID, debt.ID, 60000)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusPartial, got.Debt.Status)
	assert.Equal(t, 60000.0, got.Debt.PaidAmount)
	assert.Equal(t, 40000.0, got.RemainingAmount())
	assert.False(t, got.IsClosed)

	// Paying exactly the remainder closes the debt.
	got, err = svc.AddPayment(ctx, user.ID, debt.ID, 40000)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusClosed, got.Debt.Status)
	assert.True(t, got.IsClosed)
	assert.Equal(t, 0.0, got.RemainingAmount())

	// Further payments are rejected.
	_, err = svc.AddPayment(ctx, user.ID, debt.ID, 1)
	assert.ErrorIs(t, err, ErrDebtClosed)
}

func TestAddPaymentRejectsOverpayment(t *testing.T) {
	svc, _, user, debt := newDebtFixture(t, 100000)
	ctx := context.Background()

	_, err := svc.AddPayment(ctx, user.ID, debt.ID, 60000)
	require.NoError(t, err)

	_, err = svc.AddPayment(ctx, user.ID, debt.ID, 50000)
	assert.ErrorIs(t, err, ErrOverpayment)
}

func TestAddPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc, _, user, debt := newDebtFixture(t, 100000)

	_, err := svc.AddPayment(context.Background(), user.ID, debt.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.AddPayment(context.Background(), user.ID, debt.ID, -500)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAddPaymentRejectsNonDebt(t *testing.T) {
	svc, transactions, user, _ := newDebtFixture(t, 100000)

	expense := &models.Transaction{
		ID:     uuid.New(),
		UserID: user.ID,
		Amount: 5000,
		Type:   models.TransactionTypeExpense,
	}
	transactions.transactions[expense.ID] = expense

	_, err := svc.AddPayment(context.Background(), user.ID, expense.ID, 1000)
	assert.ErrorIs(t, err, ErrNotDebt)
}

func TestCloseDebtRequiresFullPaymentWithoutForce(t *testing.T) {
	svc, _, user, debt := newDebtFixture(t, 100000)
	ctx := context.Background()

	_, err := svc.CloseDebt(ctx, user.ID, debt.ID, false)
	assert.ErrorIs(t, err, ErrDebtNotFully)

	// Force writes off the remainder.
	got, err := svc.CloseDebt(ctx, user.ID, debt.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusClosed, got.Debt.Status)
	assert.Equal(t, got.Amount, got.Debt.PaidAmount)
	assert.True(t, got.IsClosed)
}

func TestMarkOverdueFlipsPastDueDebts(t *testing.T) {
	svc, transactions, user, debt := newDebtFixture(t, 100000)
	ctx := context.Background()

	past := time.Now().Add(-24 * time.Hour)
	debt.Debt.DueDate = &past

	n, err := svc.MarkOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := transactions.GetByID(ctx, user.ID, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusOverdue, got.Debt.Status)
}

func TestPartialPaymentKeepsOverdueStatus(t *testing.T) {
	svc, _, user, debt := newDebtFixture(t, 100000)
	ctx := context.Background()

	past := time.Now().Add(-48 * time.Hour)
	debt.Debt.DueDate = &past
	debt.Debt.Status = models.DebtStatusOverdue

	// A partial payment must not make an overdue debt look healthy.
	got, err := svc.AddPayment(ctx, user.ID, debt.ID, 30000)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusOverdue, got.Debt.Status)
	assert.Equal(t, 70000.0, got.RemainingAmount())

	// Full payment still closes it.
	got, err = svc.AddPayment(ctx, user.ID, debt.ID, 70000)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusClosed, got.Debt.Status)
	assert.True(t, got.IsClosed)
}
