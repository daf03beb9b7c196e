package service

import (
	"context"
	"fmt"
	"time"

	"ovozpay/internal/dto"
	"ovozpay/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Language != nil {
		user.Language = models.Language(*req.Language)
	}
	if req.Currency != nil {
		user.Currency = *req.Currency
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// FindOrCreateByTelegram resolves the bot user for a chat, registering a
// placeholder account on first contact. The phone number is filled in later
// via the /phone command. Returns whether the user is new, which drives the
// language-selection prompt.
func (s *UserService) FindOrCreateByTelegram(ctx context.Context, chatID int64, firstName, lastName, username string) (*models.User, bool, error) {
	user, err := s.users.GetByTelegramChatID(ctx, chatID)
	if err == nil {
		return user, false, nil
	}

	now := time.Now()
	user = &models.User{
		ID:             uuid.New(),
		PhoneNumber:    fmt.Sprintf("tg:%d", chatID),
		FirstName:      firstName,
		LastName:       lastName,
		Username:       username,
		TelegramChatID: &chatID,
		Language:       models.LanguageRussian,
		Currency:       "UZS",
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, err
	}

	s.logger.Info("Registered telegram user",
		zap.Int64("chat_id", chatID),
		zap.String("user_id", user.ID.String()),
	)

	return user, true, nil
}

// SetPhone attaches a real phone number to a bot-registered account.
func (s *UserService) SetPhone(ctx context.Context, id uuid.UUID, phone string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return ErrUserNotFound
	}

	if existing, err := s.users.GetByPhone(ctx, phone); err == nil && existing.ID != user.ID {
		return ErrUserExists
	}

	user.PhoneNumber = phone
	user.UpdatedAt = time.Now()
	return s.users.Update(ctx, user)
}

// SetLanguage stores the user's interface language choice.
func (s *UserService) SetLanguage(ctx context.Context, id uuid.UUID, language models.Language) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return ErrUserNotFound
	}

	user.Language = language
	user.UpdatedAt = time.Now()
	return s.users.Update(ctx, user)
}
