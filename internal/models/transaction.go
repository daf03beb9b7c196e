package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeDebt     TransactionType = "debt"
	TransactionTypeTransfer TransactionType = "transfer"
)

type DebtStatus string

const (
	DebtStatusOpen    DebtStatus = "open"
	DebtStatusPartial DebtStatus = "partial"
	DebtStatusClosed  DebtStatus = "closed"
	DebtStatusOverdue DebtStatus = "overdue"
)

type DebtDirection string

const (
	// DebtDirectionToMe means the counterparty owes the user.
	DebtDirectionToMe DebtDirection = "to_me"
	// DebtDirectionFromMe means the user owes the counterparty.
	DebtDirectionFromMe DebtDirection = "from_me"
)

// Transaction is a single ledger entry. Amount is immutable after creation;
// the debt payload is the only mutable part (payments, status).
type Transaction struct {
	ID            uuid.UUID       `db:"id"`
	UserID        uuid.UUID       `db:"user_id"`
	Amount        float64         `db:"amount"`
	Type          TransactionType `db:"type"`
	CategoryID    *uuid.UUID      `db:"category_id"`
	Description   string          `db:"description"`
	Date          time.Time       `db:"date"`
	RelatedUserID *uuid.UUID      `db:"related_user_id"`
	IsClosed      bool            `db:"is_closed"`
	Notified      bool            `db:"telegram_notified"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`

	// Debt is set only when Type is TransactionTypeDebt.
	Debt *Debt `db:"-"`
}

// Debt is the debt-specific payload of a transaction, stored in its own
// table keyed by the transaction id.
type Debt struct {
	TransactionID    uuid.UUID     `db:"transaction_id"`
	DueDate          *time.Time    `db:"due_date"`
	PaidAmount       float64       `db:"paid_amount"`
	Status           DebtStatus    `db:"status"`
	CounterpartyName string        `db:"counterparty_name"`
	Direction        DebtDirection `db:"direction"`
}

// BalanceImpact returns the transaction's contribution to the user's
// balance. Debts are tracked separately and do not move the balance.
func (t *Transaction) BalanceImpact() float64 {
	switch t.Type {
	case TransactionTypeIncome:
		return t.Amount
	case TransactionTypeExpense, TransactionTypeTransfer:
		return -t.Amount
	default:
		return 0
	}
}

func (t *Transaction) IsDebt() bool {
	return t.Type == TransactionTypeDebt
}

// RemainingAmount returns what is still unpaid on the debt.
func (t *Transaction) RemainingAmount() float64 {
	if t.Debt == nil {
		return 0
	}
	return t.Amount - t.Debt.PaidAmount
}

// PaymentProgress returns the paid fraction of the debt in percent.
func (t *Transaction) PaymentProgress() float64 {
	if t.Debt == nil || t.Amount == 0 {
		return 0
	}
	return t.Debt.PaidAmount / t.Amount * 100
}

// IsOverdue reports whether an unclosed debt is past its due date.
func (t *Transaction) IsOverdue(now time.Time) bool {
	if t.Debt == nil || t.Debt.Status == DebtStatusClosed || t.Debt.DueDate == nil {
		return false
	}
	return now.After(*t.Debt.DueDate)
}
