package service

import (
	"context"
	"time"

	"ovozpay/internal/models"
	"ovozpay/internal/repository"

	"github.com/google/uuid"
)

// Store interfaces are satisfied by the pgx repositories and by in-memory
// fakes in tests.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type TransactionStore interface {
	Create(ctx context.Context, t *models.Transaction) error
	CreatePair(ctx context.Context, out, in *models.Transaction) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, txType models.TransactionType, limit, offset int) ([]*models.Transaction, error)
	UpdateDebt(ctx context.Context, t *models.Transaction) error
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	SumBalance(ctx context.Context, userID uuid.UUID) (float64, error)
	PeriodTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (*repository.PeriodTotals, error)
	ExpensesByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.CategorySum, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type GoalStore interface {
	Create(ctx context.Context, goal *models.Goal) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error)
	ListActive(ctx context.Context) ([]*models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) error
	SaveProgress(ctx context.Context, goal *models.Goal, gt *models.GoalTransaction, withdrawal *models.Transaction) error
	ListTransactions(ctx context.Context, goalID uuid.UUID) ([]*models.GoalTransaction, error)
}

type ReminderStore interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Reminder, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Reminder, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.Reminder, error)
	Update(ctx context.Context, reminder *models.Reminder) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type BalanceStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Balance, error)
	Upsert(ctx context.Context, b *models.Balance) error
}

// Notifier pushes a message to a Telegram chat. Delivery failures must not
// roll back the financial write that triggered them.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}
