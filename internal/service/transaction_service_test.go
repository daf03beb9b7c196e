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

func newTransactionFixture(t *testing.T) (*TransactionService, *fakeTransactionStore, *fakeUserStore, *fakeNotifier, *models.User) {
	t.Helper()

	users := newFakeUserStore()
	transactions := newFakeTransactionStore()
	notifier := &fakeNotifier{}
	user := newTestUser(users, 111)

	svc := NewTransactionService(transactions, users, notifier, zap.NewNop())
	return svc, transactions, users, notifier, user
}

func TestCreateIncomeMovesBalance(t *testing.T) {
	svc, transactions, _, notifier, user := newTransactionFixture(t)
	ctx := context.Background()

	_, err := svc.CreateIncome(ctx, user.ID, CreateTransactionInput{
		Amount:      500000,
		Description: "зарплата",
		Date:        time.Now(),
	})
	require.NoError(t, err)

	balance, err := transactions.SumBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 500000.0, balance)

	// The user with a linked chat gets a notification.
	assert.Len(t, notifier.messages, 1)
}

func TestCreateExpenseBalanceCheck(t *testing.T) {
	svc, _, _, _, user := newTransactionFixture(t)
	ctx := context.Background()

	// With checkBalance the expense must not exceed the balance.
	_, err := svc.CreateExpense(ctx, user.ID, CreateTransactionInput{
		Amount: 10000,
		Date:   time.Now(),
	}, true)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Without the check the expense goes through (bot flow).
	_, err = svc.CreateExpense(ctx, user.ID, CreateTransactionInput{
		Amount: 10000,
		Date:   time.Now(),
	}, false)
	require.NoError(t, err)
}

func TestCreateTransferWritesBothLegs(t *testing.T) {
	svc, transactions, users, _, sender := newTransactionFixture(t)
	ctx := context.Background()

	recipient := newTestUser(users, 222)

	_, err := svc.CreateIncome(ctx, sender.ID, CreateTransactionInput{
		Amount: 100000,
		Date:   time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.CreateTransfer(ctx, sender.ID, CreateTransactionInput{
		Amount:        30000,
		RelatedUserID: &recipient.ID,
		Date:          time.Now(),
	}, true)
	require.NoError(t, err)

	senderBalance, _ := transactions.SumBalance(ctx, sender.ID)
	recipientBalance, _ := transactions.SumBalance(ctx, recipient.ID)
	assert.Equal(t, 70000.0, senderBalance)
	assert.Equal(t, 30000.0, recipientBalance)
}

func TestCreateTransferRejectsSelfAndUnknownTarget(t *testing.T) {
	svc, _, _, _, user := newTransactionFixture(t)
	ctx := context.Background()

	_, err := svc.CreateTransfer(ctx, user.ID, CreateTransactionInput{
		Amount:        1000,
		RelatedUserID: &user.ID,
		Date:          time.Now(),
	}, false)
	assert.ErrorIs(t, err, ErrSelfTransfer)

	unknown := uuid.New()
	_, err = svc.CreateTransfer(ctx, user.ID, CreateTransactionInput{
		Amount:        1000,
		RelatedUserID: &unknown,
		Date:          time.Now(),
	}, false)
	assert.Error(t, err)

	_, err = svc.CreateTransfer(ctx, user.ID, CreateTransactionInput{
		Amount: 1000,
		Date:   time.Now(),
	}, false)
	assert.ErrorIs(t, err, ErrTransferTarget)
}

func TestCreateDebtDoesNotMoveBalance(t *testing.T) {
	svc, transactions, _, _, user := newTransactionFixture(t)
	ctx := context.Background()

	due := time.Now().Add(30 * 24 * time.Hour)
	debt, err := svc.CreateDebt(ctx, user.ID, CreateTransactionInput{
		Amount:           200000,
		Date:             time.Now(),
		DueDate:          &due,
		CounterpartyName: "Бахтиёр",
		Direction:        models.DebtDirectionToMe,
	})
	require.NoError(t, err)
	require.NotNil(t, debt.Debt)
	assert.Equal(t, models.DebtStatusOpen, debt.Debt.Status)

	balance, _ := transactions.SumBalance(ctx, user.ID)
	assert.Equal(t, 0.0, balance)
}

func TestNotificationFailureDoesNotFailOperation(t *testing.T) {
	svc, transactions, _, notifier, user := newTransactionFixture(t)
	ctx := context.Background()

	notifier.failN = 100 // every delivery fails

	_, err := svc.CreateIncome(ctx, user.ID, CreateTransactionInput{
		Amount: 1000,
		Date:   time.Now(),
	})
	require.NoError(t, err)

	// The ledger write survived the delivery failure.
	balance, _ := transactions.SumBalance(ctx, user.ID)
	assert.Equal(t, 1000.0, balance)
}
