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
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfTransfer        = errors.New("cannot transfer to yourself")
	ErrTransferTarget      = errors.New("transfer requires a recipient")
)

type TransactionService struct {
	transactions TransactionStore
	users        UserStore
	notifier     Notifier
	logger       *zap.Logger
}

func NewTransactionService(transactions TransactionStore, users UserStore, notifier Notifier, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		users:        users,
		notifier:     notifier,
		logger:       logger,
	}
}

type CreateTransactionInput struct {
	Amount      float64
	CategoryID  *uuid.UUID
	Description string
	Date        time.Time

	// Transfer only.
	RelatedUserID *uuid.UUID

	// Debt only.
	DueDate          *time.Time
	CounterpartyName string
	Direction        models.DebtDirection
}

func (s *TransactionService) CreateIncome(ctx context.Context, userID uuid.UUID, in CreateTransactionInput) (*models.Transaction, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	t := newTransaction(userID, models.TransactionTypeIncome, in)
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Created income transaction",
		zap.String("transaction_id", t.ID.String()),
		zap.String("user_id", userID.String()),
	)
	s.notifyUser(ctx, userID, fmt.Sprintf("✅ Доход: +%.2f\n%s", t.Amount, t.Description))
	return t, nil
}

func (s *TransactionService) CreateExpense(ctx context.Context, userID uuid.UUID, in CreateTransactionInput, checkBalance bool) (*models.Transaction, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if checkBalance {
		balance, err := s.transactions.SumBalance(ctx, userID)
		if err != nil {
			return nil, err
		}
		if balance < in.Amount {
			return nil, ErrInsufficientBalance
		}
	}

	t := newTransaction(userID, models.TransactionTypeExpense, in)
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Created expense transaction",
		zap.String("transaction_id", t.ID.String()),
		zap.String("user_id", userID.String()),
	)
	s.notifyUser(ctx, userID, fmt.Sprintf("💸 Расход: -%.2f\n%s", t.Amount, t.Description))
	return t, nil
}

// CreateTransfer writes both legs of the transfer atomically: an outgoing
// row for the sender and an incoming row for the recipient.
func (s *TransactionService) CreateTransfer(ctx context.Context, userID uuid.UUID, in CreateTransactionInput, checkBalance bool) (*models.Transaction, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.RelatedUserID == nil {
		return nil, ErrTransferTarget
	}
	if *in.RelatedUserID == userID {
		return nil, ErrSelfTransfer
	}

	if _, err := s.users.GetByID(ctx, *in.RelatedUserID); err != nil {
		return nil, ErrUserNotFound
	}

	if checkBalance {
		balance, err := s.transactions.SumBalance(ctx, userID)
		if err != nil {
			return nil, err
		}
		if balance < in.Amount {
			return nil, ErrInsufficientBalance
		}
	}

	out := newTransaction(userID, models.TransactionTypeTransfer, in)

	incoming := in
	incoming.RelatedUserID = &userID
	received := newTransaction(*in.RelatedUserID, models.TransactionTypeIncome, incoming)

	if err := s.transactions.CreatePair(ctx, out, received); err != nil {
		return nil, err
	}

	s.logger.Info("Created transfer",
		zap.String("transaction_id", out.ID.String()),
		zap.String("from", userID.String()),
		zap.String("to", in.RelatedUserID.String()),
	)
	s.notifyUser(ctx, userID, fmt.Sprintf("📤 Перевод: -%.2f", out.Amount))
	s.notifyUser(ctx, *in.RelatedUserID, fmt.Sprintf("📥 Вам перевели: +%.2f", out.Amount))
	return out, nil
}

// CreateDebt records a new debt with a zero-paid open payload. Debts do not
// move the balance; they are tracked through the debt lifecycle instead.
func (s *TransactionService) CreateDebt(ctx context.Context, userID uuid.UUID, in CreateTransactionInput) (*models.Transaction, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.CounterpartyName == "" {
		return nil, errors.New("debt requires a counterparty name")
	}
	if in.Direction != models.DebtDirectionToMe && in.Direction != models.DebtDirectionFromMe {
		return nil, errors.New("debt requires a direction")
	}

	t := newTransaction(userID, models.TransactionTypeDebt, in)
	t.Debt = &models.Debt{
		TransactionID:    t.ID,
		DueDate:          in.DueDate,
		PaidAmount:       0,
		Status:           models.DebtStatusOpen,
		CounterpartyName: in.CounterpartyName,
		Direction:        in.Direction,
	}

	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Created debt transaction",
		zap.String("transaction_id", t.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("direction", string(in.Direction)),
	)
	s.notifyUser(ctx, userID, fmt.Sprintf("📌 Долг записан: %.2f (%s)", t.Amount, t.Debt.CounterpartyName))
	return t, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	return s.transactions.GetByID(ctx, userID, id)
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, txType models.TransactionType, limit, offset int) ([]*models.Transaction, error) {
	return s.transactions.List(ctx, userID, txType, limit, offset)
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.transactions.Delete(ctx, userID, id)
}

func newTransaction(userID uuid.UUID, txType models.TransactionType, in CreateTransactionInput) *models.Transaction {
	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	return &models.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Amount:        in.Amount,
		Type:          txType,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		Date:          date,
		RelatedUserID: in.RelatedUserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// notifyUser pushes a Telegram message when the user has a linked chat.
// Delivery failures are logged and never fail the calling operation.
func (s *TransactionService) notifyUser(ctx context.Context, userID uuid.UUID, text string) {
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
