package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ovozpay/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrInvalidCategory  = errors.New("invalid category type")
	ErrCategoryNotFound = errors.New("category not found")
)

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type CategoryService struct {
	categories CategoryStore
	logger     *zap.Logger
}

func NewCategoryService(categories CategoryStore, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger,
	}
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, name string, catType models.CategoryType, emoji string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNotFound
	}
	if catType != models.CategoryTypeIncome && catType != models.CategoryTypeExpense {
		return nil, ErrInvalidCategory
	}

	if existing, err := s.categories.FindByName(ctx, userID, name); err == nil && existing != nil {
		return nil, ErrCategoryExists
	}

	now := time.Now()
	category := &models.Category{
		ID:        uuid.New(),
		UserID:    &userID,
		Name:      name,
		Type:      catType,
		Emoji:     emoji,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Created category",
		zap.String("category_id", category.ID.String()),
		zap.String("name", name),
	)
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	return s.categories.ListForUser(ctx, userID)
}

// Resolve finds a category by name among the user's categories and the
// shared defaults. Missing categories are not an error for the AI and
// free-text flows, which fall back to uncategorized.
func (s *CategoryService) Resolve(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNotFound
	}
	category, err := s.categories.FindByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	return s.categories.Delete(ctx, userID, categoryID)
}
