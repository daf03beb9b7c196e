package repository

import (
	"context"
	"ovozpay/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var sourceColumns = []string{
	"id", "name", "description", "utm_source", "utm_medium", "utm_campaign",
	"is_active", "created_at", "updated_at",
}

type SourceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSourceRepository(db *pgxpool.Pool, logger *zap.Logger) *SourceRepository {
	return &SourceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SourceRepository) Create(ctx context.Context, source *models.Source) error {
	query := squirrel.Insert("sources").
		Columns(sourceColumns...).
		Values(source.ID, source.Name, source.Description, source.UTMSource, source.UTMMedium,
			source.UTMCampaign, source.IsActive, source.CreatedAt, source.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SourceRepository) GetByName(ctx context.Context, name string) (*models.Source, error) {
	query := squirrel.Select(sourceColumns...).
		From("sources").
		Where(squirrel.Eq{"name": name}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var s models.Source
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&s.ID, &s.Name, &s.Description, &s.UTMSource, &s.UTMMedium, &s.UTMCampaign,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *SourceRepository) List(ctx context.Context) ([]*models.Source, error) {
	query := squirrel.Select(sourceColumns...).
		From("sources").
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

	var sources []*models.Source
	for rows.Next() {
		var s models.Source
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.UTMSource, &s.UTMMedium, &s.UTMCampaign,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sources = append(sources, &s)
	}

	return sources, rows.Err()
}

func (r *SourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("sources").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// CountUsers returns how many users arrived from the source.
func (r *SourceRepository) CountUsers(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE source_id = $1`, id).Scan(&count)
	return count, err
}
