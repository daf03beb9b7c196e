package repository

import (
	"context"
	"ovozpay/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var userColumns = []string{
	"id", "phone_number", "first_name", "last_name", "username", "password",
	"telegram_chat_id", "language", "currency", "source_id", "is_active", "created_at", "updated_at",
}

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := squirrel.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.PhoneNumber, user.FirstName, user.LastName, user.Username, user.Password,
			user.TelegramChatID, user.Language, user.Currency, user.SourceID, user.IsActive, user.CreatedAt, user.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"phone_number": phone})
}

func (r *UserRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"telegram_chat_id": chatID})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where(where).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.PhoneNumber, &user.FirstName, &user.LastName, &user.Username, &user.Password,
		&user.TelegramChatID, &user.Language, &user.Currency, &user.SourceID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// userUpdateQuery covers every column a service may mutate after creation,
// including phone_number which the bot sets after registration.
func userUpdateQuery(user *models.User) squirrel.UpdateBuilder {
	return squirrel.Update("users").
		Set("phone_number", user.PhoneNumber).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("username", user.Username).
		Set("telegram_chat_id", user.TelegramChatID).
		Set("language", user.Language).
		Set("currency", user.Currency).
		Set("source_id", user.SourceID).
		Set("is_active", user.IsActive).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	sql, args, err := userUpdateQuery(user).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListChatIDs returns telegram chat ids of all active users, used for
// broadcast notifications.
func (r *UserRepository) ListChatIDs(ctx context.Context) ([]int64, error) {
	query := squirrel.Select("telegram_chat_id").
		From("users").
		Where(squirrel.And{
			squirrel.Eq{"is_active": true},
			squirrel.NotEq{"telegram_chat_id": nil},
		}).
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

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
