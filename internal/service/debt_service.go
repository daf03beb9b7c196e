package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ovozpay/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotDebt      = errors.New("transaction is not a debt")
	ErrDebtClosed   = errors.New("debt is already closed")
	ErrOverpayment  = errors.New("payment exceeds remaining debt amount")
	ErrDebtNotFully = errors.New("debt is not fully paid")
)

// DebtService drives the debt lifecycle: open → partial → closed, with the
// scheduler flipping overdue debts. paid_amount never exceeds amount.
type DebtService struct {
	transactions TransactionStore
	users        UserStore
	notifier     Notifier
	logger       *zap.Logger
}

func NewDebtService(transactions TransactionStore, users UserStore, notifier Notifier, logger *zap.Logger) *DebtService {
	return &DebtService{
		transactions: transactions,
		users:        users,
		notifier:     notifier,
		logger:       logger,
	}
}

// AddPayment applies a partial or final payment to an open debt.
func (s *DebtService) AddPayment(ctx context.Context, userID, debtID uuid.UUID, amount float64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	t, err := s.transactions.GetByID(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}
	if t.Debt == nil {
		return nil, ErrNotDebt
	}
	if t.Debt.Status == models.DebtStatusClosed {
		return nil, ErrDebtClosed
	}
	if amount > t.RemainingAmount() {
		return nil, ErrOverpayment
	}

	t.Debt.PaidAmount += amount
	s.updateStatus(t)
	t.UpdatedAt = time.Now()

	if err := s.transactions.UpdateDebt(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Debt payment recorded",
		zap.String("transaction_id", t.ID.String()),
		zap.Float64("payment", amount),
		zap.String("status", string(t.Debt.Status)),
	)

	if t.Debt.Status == models.DebtStatusClosed {
		s.notifyUser(ctx, userID, fmt.Sprintf("✅ Долг закрыт: %s (%.2f)", t.Debt.CounterpartyName, t.Amount))
	} else {
		s.notifyUser(ctx, userID, fmt.Sprintf("💰 Платёж по долгу %s: %.2f\nОсталось: %.2f",
			t.Debt.CounterpartyName, amount, t.RemainingAmount()))
	}

	return t, nil
}

// CloseDebt closes the debt. With force it writes off the remainder;
// without, the debt must already be fully paid.
func (s *DebtService) CloseDebt(ctx context.Context, userID, debtID uuid.UUID, force bool) (*models.Transaction, error) {
	t, err := s.transactions.GetByID(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}
	if t.Debt == nil {
		return nil, ErrNotDebt
	}
	if t.Debt.Status == models.DebtStatusClosed {
		return nil, ErrDebtClosed
	}

	if !force && t.RemainingAmount() > 0 {
		return nil, ErrDebtNotFully
	}

	t.Debt.PaidAmount = t.Amount
	t.Debt.Status = models.DebtStatusClosed
	t.IsClosed = true
	t.UpdatedAt = time.Now()

	if err := s.transactions.UpdateDebt(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Debt closed",
		zap.String("transaction_id", t.ID.String()),
		zap.Bool("force", force),
	)
	s.notifyUser(ctx, userID, fmt.Sprintf("✅ Долг закрыт: %s", t.Debt.CounterpartyName))
	return t, nil
}

// MarkOverdue is the scheduled scan flipping unpaid debts past their due
// date to overdue.
func (s *DebtService) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.transactions.MarkOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Marked debts overdue", zap.Int64("count", n))
	}
	return n, nil
}

// updateStatus recomputes the debt status after a payment. An overdue debt
// stays overdue until fully paid; a partial payment does not reset it.
func (s *DebtService) updateStatus(t *models.Transaction) {
	switch {
	case t.Debt.PaidAmount >= t.Amount:
		t.Debt.Status = models.DebtStatusClosed
		t.IsClosed = true
	case t.IsOverdue(time.Now()):
		t.Debt.Status = models.DebtStatusOverdue
	case t.Debt.PaidAmount > 0:
		t.Debt.Status = models.DebtStatusPartial
	default:
		t.Debt.Status = models.DebtStatusOpen
	}
}

func (s *DebtService) notifyUser(ctx context.Context, userID uuid.UUID, text string) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user.TelegramChatID == nil {
		return
	}
	if err := s.notifier.Notify(ctx, *user.TelegramChatID, text); err != nil {
		s.logger.Warn("Telegram notification failed",
			zap.Int64("chat_id", *user.TelegramChatID),
			zap.Error(err),
		)
	}
}
