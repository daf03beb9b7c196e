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
	ErrSourceExists  = errors.New("source already exists")
	ErrInvalidSource = errors.New("source name is required")
)

type SourceStore interface {
	Create(ctx context.Context, source *models.Source) error
	GetByName(ctx context.Context, name string) (*models.Source, error)
	List(ctx context.Context) ([]*models.Source, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountUsers(ctx context.Context, id uuid.UUID) (int64, error)
}

// SourceService tracks the traffic sources users arrive from. The bot
// passes the /start deep-link payload here for attribution.
type SourceService struct {
	sources SourceStore
	users   UserStore
	logger  *zap.Logger
}

func NewSourceService(sources SourceStore, users UserStore, logger *zap.Logger) *SourceService {
	return &SourceService{
		sources: sources,
		users:   users,
		logger:  logger,
	}
}

type CreateSourceInput struct {
	Name        string
	Description string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
}

func (s *SourceService) Create(ctx context.Context, in CreateSourceInput) (*models.Source, error) {
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if name == "" {
		return nil, ErrInvalidSource
	}

	if _, err := s.sources.GetByName(ctx, name); err == nil {
		return nil, ErrSourceExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	source := &models.Source{
		ID:          uuid.New(),
		Name:        name,
		Description: in.Description,
		UTMSource:   in.UTMSource,
		UTMMedium:   in.UTMMedium,
		UTMCampaign: in.UTMCampaign,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.sources.Create(ctx, source); err != nil {
		return nil, err
	}

	s.logger.Info("Source created", zap.String("name", name))
	return source, nil
}

func (s *SourceService) List(ctx context.Context) ([]*models.Source, error) {
	return s.sources.List(ctx)
}

func (s *SourceService) CountUsers(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.sources.CountUsers(ctx, id)
}

func (s *SourceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.sources.Delete(ctx, id)
}

// Attribute links a user to the source named in a /start deep-link payload,
// creating the source on first sight. The first attribution wins; later
// /start payloads never overwrite it.
func (s *SourceService) Attribute(ctx context.Context, userID uuid.UUID, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ErrInvalidSource
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.SourceID != nil {
		return nil
	}

	source, err := s.sources.GetByName(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		source, err = s.Create(ctx, CreateSourceInput{Name: name, UTMSource: name})
	}
	if err != nil {
		return err
	}

	user.SourceID = &source.ID
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User attributed to source",
		zap.String("user_id", userID.String()),
		zap.String("source", name),
	)
	return nil
}

// CreateDefaults seeds the standard traffic sources. Existing names are
// left untouched.
func (s *SourceService) CreateDefaults(ctx context.Context) ([]*models.Source, error) {
	defaults := []CreateSourceInput{
		{Name: "telegram", Description: "Переходы из Telegram", UTMSource: "telegram", UTMMedium: "social"},
		{Name: "instagram", Description: "Переходы из Instagram", UTMSource: "instagram", UTMMedium: "social"},
		{Name: "whatsapp", Description: "Переходы из WhatsApp", UTMSource: "whatsapp", UTMMedium: "messaging"},
		{Name: "referral", Description: "Реферальные переходы", UTMSource: "referral", UTMMedium: "referral"},
		{Name: "direct", Description: "Прямые переходы", UTMSource: "direct", UTMMedium: "none"},
		{Name: "google", Description: "Переходы из Google", UTMSource: "google", UTMMedium: "organic"},
		{Name: "yandex", Description: "Переходы из Yandex", UTMSource: "yandex", UTMMedium: "organic"},
	}

	var created []*models.Source
	for _, in := range defaults {
		source, err := s.Create(ctx, in)
		if errors.Is(err, ErrSourceExists) {
			continue
		}
		if err != nil {
			return created, err
		}
		created = append(created, source)
	}
	return created, nil
}
