package repository

import (
	"context"
	"time"

	"ovozpay/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "user_id", "amount", "type", "category_id", "description", "date",
	"related_user_id", "is_closed", "telegram_notified", "created_at", "updated_at",
}

var debtColumns = []string{
	"transaction_id", "due_date", "paid_amount", "status", "counterparty_name", "direction",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func transactionInsertBuilder(t *models.Transaction) squirrel.InsertBuilder {
	return squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(t.ID, t.UserID, t.Amount, t.Type, t.CategoryID, t.Description, t.Date,
			t.RelatedUserID, t.IsClosed, t.Notified, t.CreatedAt, t.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)
}

func debtInsertBuilder(d *models.Debt) squirrel.InsertBuilder {
	return squirrel.Insert("debts").
		Columns(debtColumns...).
		Values(d.TransactionID, d.DueDate, d.PaidAmount, d.Status, d.CounterpartyName, d.Direction).
		PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the ledger row and, for debts, the payload row in one
// database transaction.
func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	sql, args, err := transactionInsertBuilder(t).ToSql()
	if err != nil {
		return err
	}

	if t.Debt == nil {
		_, err = r.db.Exec(ctx, sql, args...)
		return err
	}

	debtSQL, debtArgs, err := debtInsertBuilder(t.Debt).ToSql()
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, debtSQL, debtArgs...); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CreatePair inserts both legs of a transfer atomically.
func (r *TransactionRepository) CreatePair(ctx context.Context, out, in *models.Transaction) error {
	outSQL, outArgs, err := transactionInsertBuilder(out).ToSql()
	if err != nil {
		return err
	}
	inSQL, inArgs, err := transactionInsertBuilder(in).ToSql()
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, outSQL, outArgs...); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, inSQL, inArgs...); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(
		"t.id", "t.user_id", "t.amount", "t.type", "t.category_id", "t.description", "t.date",
		"t.related_user_id", "t.is_closed", "t.telegram_notified", "t.created_at", "t.updated_at",
		"d.due_date", "d.paid_amount", "d.status", "d.counterparty_name", "d.direction",
	).
		From("transactions t").
		LeftJoin("debts d ON d.transaction_id = t.id").
		Where(squirrel.Eq{"t.id": id, "t.user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanTransactionWithDebt(r.db.QueryRow(ctx, sql, args...))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionWithDebt(row rowScanner) (*models.Transaction, error) {
	var (
		t            models.Transaction
		dueDate      *time.Time
		paidAmount   *float64
		status       *models.DebtStatus
		counterparty *string
		direction    *models.DebtDirection
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Type, &t.CategoryID, &t.Description, &t.Date,
		&t.RelatedUserID, &t.IsClosed, &t.Notified, &t.CreatedAt, &t.UpdatedAt,
		&dueDate, &paidAmount, &status, &counterparty, &direction,
	)
	if err != nil {
		return nil, err
	}

	if status != nil {
		t.Debt = &models.Debt{
			TransactionID:    t.ID,
			DueDate:          dueDate,
			PaidAmount:       *paidAmount,
			Status:           *status,
			CounterpartyName: *counterparty,
			Direction:        *direction,
		}
	}

	return &t, nil
}

// List returns the user's ledger, newest first, optionally filtered by type.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, txType models.TransactionType, limit, offset int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := squirrel.Select(
		"t.id", "t.user_id", "t.amount", "t.type", "t.category_id", "t.description", "t.date",
		"t.related_user_id", "t.is_closed", "t.telegram_notified", "t.created_at", "t.updated_at",
		"d.due_date", "d.paid_amount", "d.status", "d.counterparty_name", "d.direction",
	).
		From("transactions t").
		LeftJoin("debts d ON d.transaction_id = t.id").
		Where(squirrel.Eq{"t.user_id": userID}).
		OrderBy("t.date DESC", "t.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	if txType != "" {
		query = query.Where(squirrel.Eq{"t.type": txType})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		t, err := scanTransactionWithDebt(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// UpdateDebt persists the mutable part of a debt transaction: payment
// progress on the debt row and the closed flag on the ledger row.
func (r *TransactionRepository) UpdateDebt(ctx context.Context, t *models.Transaction) error {
	debtSQL, debtArgs, err := squirrel.Update("debts").
		Set("paid_amount", t.Debt.PaidAmount).
		Set("status", t.Debt.Status).
		Where(squirrel.Eq{"transaction_id": t.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	txSQL, txArgs, err := squirrel.Update("transactions").
		Set("is_closed", t.IsClosed).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, debtSQL, debtArgs...); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, txSQL, txArgs...); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MarkOverdue flips open and partially paid debts past their due date to
// overdue. Returns the number of affected debts.
func (r *TransactionRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE debts
		SET status = 'overdue'
		WHERE status IN ('open', 'partial')
		  AND due_date IS NOT NULL
		  AND due_date < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SumBalance computes the user's balance directly from the ledger:
// income adds, expense and transfer subtract, debt does not move it.
func (r *TransactionRepository) SumBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	var balance float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(
			CASE type
				WHEN 'income' THEN amount
				WHEN 'expense' THEN -amount
				WHEN 'transfer' THEN -amount
				ELSE 0
			END
		), 0)
		FROM transactions
		WHERE user_id = $1
	`, userID).Scan(&balance)
	return balance, err
}

type PeriodTotals struct {
	TotalIncome  float64
	TotalExpense float64
}

func (r *TransactionRepository) PeriodTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (*PeriodTotals, error) {
	var totals PeriodTotals
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`, userID, from, to).Scan(&totals.TotalIncome, &totals.TotalExpense)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

type CategorySum struct {
	CategoryID   *uuid.UUID
	CategoryName string
	Total        float64
}

func (r *TransactionRepository) ExpensesByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]CategorySum, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.category_id, COALESCE(c.name, 'uncategorized'), SUM(t.amount)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = 'expense' AND t.date >= $2 AND t.date < $3
		GROUP BY t.category_id, c.name
		ORDER BY SUM(t.amount) DESC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sums []CategorySum
	for rows.Next() {
		var s CategorySum
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.Total); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}

	return sums, rows.Err()
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
