package repository

import (
	"context"

	"ovozpay/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// BalanceRepository stores the cached per-user balance row. The ledger
// remains the source of truth; see TransactionRepository.SumBalance.
type BalanceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBalanceRepository(db *pgxpool.Pool, logger *zap.Logger) *BalanceRepository {
	return &BalanceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BalanceRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Balance, error) {
	query := squirrel.Select("id", "user_id", "amount", "currency", "updated_at").
		From("balances").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var b models.Balance
	err = r.db.QueryRow(ctx, sql, args...).Scan(&b.ID, &b.UserID, &b.Amount, &b.Currency, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *BalanceRepository) Upsert(ctx context.Context, b *models.Balance) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO balances (id, user_id, amount, currency, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET amount = EXCLUDED.amount,
		    currency = EXCLUDED.currency,
		    updated_at = EXCLUDED.updated_at
	`, b.ID, b.UserID, b.Amount, b.Currency, b.UpdatedAt)
	return err
}
