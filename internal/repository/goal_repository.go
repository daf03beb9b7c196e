package repository

import (
	"context"

	"ovozpay/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var goalColumns = []string{
	"id", "user_id", "title", "description", "target_amount", "current_amount",
	"deadline", "status", "reminder_interval", "last_reminder_sent", "created_at", "updated_at",
}

type GoalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewGoalRepository(db *pgxpool.Pool, logger *zap.Logger) *GoalRepository {
	return &GoalRepository{
		db:     db,
		logger: logger,
	}
}

func (r *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	query := squirrel.Insert("goals").
		Columns(goalColumns...).
		Values(goal.ID, goal.UserID, goal.Title, goal.Description, goal.TargetAmount, goal.CurrentAmount,
			goal.Deadline, goal.Status, goal.ReminderInterval, goal.LastReminderSent, goal.CreatedAt, goal.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *GoalRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	query := squirrel.Select(goalColumns...).
		From("goals").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var g models.Goal
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetAmount, &g.CurrentAmount,
		&g.Deadline, &g.Status, &g.ReminderInterval, &g.LastReminderSent, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

func (r *GoalRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	return r.list(ctx, squirrel.Select(goalColumns...).
		From("goals").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar))
}

// ListActive returns every active goal with reminders enabled, for the
// scheduler's progress-reminder pass.
func (r *GoalRepository) ListActive(ctx context.Context) ([]*models.Goal, error) {
	return r.list(ctx, squirrel.Select(goalColumns...).
		From("goals").
		Where(squirrel.And{
			squirrel.Eq{"status": models.GoalStatusActive},
			squirrel.NotEq{"reminder_interval": models.ReminderIntervalNever},
		}).
		PlaceholderFormat(squirrel.Dollar))
}

func (r *GoalRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Goal, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetAmount, &g.CurrentAmount,
			&g.Deadline, &g.Status, &g.ReminderInterval, &g.LastReminderSent, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, &g)
	}

	return goals, rows.Err()
}

func (r *GoalRepository) Update(ctx context.Context, goal *models.Goal) error {
	query := squirrel.Update("goals").
		Set("title", goal.Title).
		Set("description", goal.Description).
		Set("current_amount", goal.CurrentAmount).
		Set("status", goal.Status).
		Set("reminder_interval", goal.ReminderInterval).
		Set("last_reminder_sent", goal.LastReminderSent).
		Set("updated_at", goal.UpdatedAt).
		Where(squirrel.Eq{"id": goal.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// SaveProgress persists a contribution atomically: the goal-transaction
// row, the updated goal amounts/status, and optionally the balance-reducing
// ledger entry when the contribution is withdrawn from the balance.
func (r *GoalRepository) SaveProgress(ctx context.Context, goal *models.Goal, gt *models.GoalTransaction, withdrawal *models.Transaction) error {
	gtSQL, gtArgs, err := squirrel.Insert("goal_transactions").
		Columns("id", "goal_id", "amount", "description", "created_at").
		Values(gt.ID, gt.GoalID, gt.Amount, gt.Description, gt.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	goalSQL, goalArgs, err := squirrel.Update("goals").
		Set("current_amount", goal.CurrentAmount).
		Set("status", goal.Status).
		Set("updated_at", goal.UpdatedAt).
		Where(squirrel.Eq{"id": goal.ID}).
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

	if _, err = tx.Exec(ctx, gtSQL, gtArgs...); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, goalSQL, goalArgs...); err != nil {
		return err
	}
	if withdrawal != nil {
		wSQL, wArgs, err := transactionInsertBuilder(withdrawal).ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.Exec(ctx, wSQL, wArgs...); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *GoalRepository) ListTransactions(ctx context.Context, goalID uuid.UUID) ([]*models.GoalTransaction, error) {
	query := squirrel.Select("id", "goal_id", "amount", "description", "created_at").
		From("goal_transactions").
		Where(squirrel.Eq{"goal_id": goalID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.GoalTransaction
	for rows.Next() {
		var gt models.GoalTransaction
		if err := rows.Scan(&gt.ID, &gt.GoalID, &gt.Amount, &gt.Description, &gt.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, &gt)
	}

	return transactions, rows.Err()
}
