package repository

import (
	"context"
	"time"

	"ovozpay/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var reminderColumns = []string{
	"id", "user_id", "title", "description", "reminder_type", "scheduled_time", "repeat",
	"amount", "goal_id", "is_active", "last_sent", "next_reminder", "created_at", "updated_at",
}

type ReminderRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewReminderRepository(db *pgxpool.Pool, logger *zap.Logger) *ReminderRepository {
	return &ReminderRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	query := squirrel.Insert("reminders").
		Columns(reminderColumns...).
		Values(reminder.ID, reminder.UserID, reminder.Title, reminder.Description, reminder.Type,
			reminder.ScheduledTime, reminder.Repeat, reminder.Amount, reminder.GoalID, reminder.IsActive,
			reminder.LastSent, reminder.NextReminder, reminder.CreatedAt, reminder.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ReminderRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Reminder, error) {
	query := squirrel.Select(reminderColumns...).
		From("reminders").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanReminder(r.db.QueryRow(ctx, sql, args...))
}

func scanReminder(row rowScanner) (*models.Reminder, error) {
	var m models.Reminder
	err := row.Scan(
		&m.ID, &m.UserID, &m.Title, &m.Description, &m.Type, &m.ScheduledTime, &m.Repeat,
		&m.Amount, &m.GoalID, &m.IsActive, &m.LastSent, &m.NextReminder, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Reminder, error) {
	query := squirrel.Select(reminderColumns...).
		From("reminders").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("scheduled_time").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

// ListDue returns active reminders whose fire time has passed: either the
// scheduled time for never-sent reminders, or the rescheduled next time.
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	query := squirrel.Select(reminderColumns...).
		From("reminders").
		Where(squirrel.And{
			squirrel.Eq{"is_active": true},
			squirrel.Or{
				squirrel.And{
					squirrel.Eq{"next_reminder": nil},
					squirrel.LtOrEq{"scheduled_time": now},
				},
				squirrel.LtOrEq{"next_reminder": now},
			},
		}).
		OrderBy("scheduled_time").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

func (r *ReminderRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Reminder, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		m, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, m)
	}

	return reminders, rows.Err()
}

func (r *ReminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	query := squirrel.Update("reminders").
		Set("title", reminder.Title).
		Set("description", reminder.Description).
		Set("scheduled_time", reminder.ScheduledTime).
		Set("repeat", reminder.Repeat).
		Set("amount", reminder.Amount).
		Set("is_active", reminder.IsActive).
		Set("last_sent", reminder.LastSent).
		Set("next_reminder", reminder.NextReminder).
		Set("updated_at", reminder.UpdatedAt).
		Where(squirrel.Eq{"id": reminder.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ReminderRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("reminders").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
