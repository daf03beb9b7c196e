package repository

import (
	"context"
	"ovozpay/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var categoryColumns = []string{"id", "user_id", "name", "type", "emoji", "created_at", "updated_at"}

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := squirrel.Insert("categories").
		Columns(categoryColumns...).
		Values(category.ID, category.UserID, category.Name, category.Type, category.Emoji,
			category.CreatedAt, category.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var c models.Category
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Type, &c.Emoji, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ListForUser returns the user's own categories plus the shared defaults.
func (r *CategoryRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Or{
			squirrel.Eq{"user_id": userID},
			squirrel.Eq{"user_id": nil},
		}).
		OrderBy("name").
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

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Emoji, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

// FindByName looks a category up by case-insensitive name among the user's
// categories and the defaults. Used by the free-text and AI flows.
func (r *CategoryRepository) FindByName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.And{
			squirrel.Or{
				squirrel.Eq{"user_id": userID},
				squirrel.Eq{"user_id": nil},
			},
			squirrel.Expr("LOWER(name) = LOWER(?)", name),
		}).
		OrderBy("user_id NULLS LAST").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var c models.Category
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Type, &c.Emoji, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("categories").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
