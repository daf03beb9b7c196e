package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ovozpay/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrScheduleInPast = errors.New("scheduled time must be in the future")

const maxSendAttempts = 3

type ReminderService struct {
	reminders ReminderStore
	users     UserStore
	notifier  Notifier
	logger    *zap.Logger
}

func NewReminderService(reminders ReminderStore, users UserStore, notifier Notifier, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		users:     users,
		notifier:  notifier,
		logger:    logger,
	}
}

type CreateReminderInput struct {
	Title         string
	Description   string
	Type          models.ReminderType
	ScheduledTime time.Time
	Repeat        models.ReminderRepeat
	Amount        *float64
	GoalID        *uuid.UUID
}

func (s *ReminderService) Create(ctx context.Context, userID uuid.UUID, in CreateReminderInput) (*models.Reminder, error) {
	if !in.ScheduledTime.After(time.Now()) {
		return nil, ErrScheduleInPast
	}
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	remType := in.Type
	if remType == "" {
		remType = models.ReminderTypeCustom
	}
	repeat := in.Repeat
	if repeat == "" {
		repeat = models.ReminderRepeatOnce
	}

	now := time.Now()
	reminder := &models.Reminder{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         in.Title,
		Description:   in.Description,
		Type:          remType,
		ScheduledTime: in.ScheduledTime,
		Repeat:        repeat,
		Amount:        in.Amount,
		GoalID:        in.GoalID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}

	s.logger.Info("Created reminder",
		zap.String("reminder_id", reminder.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Time("scheduled_time", reminder.ScheduledTime),
	)
	return reminder, nil
}

type UpdateReminderInput struct {
	Title         *string
	Description   *string
	ScheduledTime *time.Time
	Repeat        *models.ReminderRepeat
	Amount        *float64
	IsActive      *bool
}

func (s *ReminderService) Update(ctx context.Context, userID, reminderID uuid.UUID, in UpdateReminderInput) (*models.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		reminder.Title = *in.Title
	}
	if in.Description != nil {
		reminder.Description = *in.Description
	}
	if in.ScheduledTime != nil {
		reminder.ScheduledTime = *in.ScheduledTime
		reminder.NextReminder = nil
	}
	if in.Repeat != nil {
		reminder.Repeat = *in.Repeat
	}
	if in.Amount != nil {
		reminder.Amount = in.Amount
	}
	if in.IsActive != nil {
		reminder.IsActive = *in.IsActive
	}
	reminder.UpdatedAt = time.Now()

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *ReminderService) Get(ctx context.Context, userID, reminderID uuid.UUID) (*models.Reminder, error) {
	return s.reminders.GetByID(ctx, userID, reminderID)
}

func (s *ReminderService) List(ctx context.Context, userID uuid.UUID) ([]*models.Reminder, error) {
	return s.reminders.ListByUser(ctx, userID)
}

func (s *ReminderService) Delete(ctx context.Context, userID, reminderID uuid.UUID) error {
	return s.reminders.Delete(ctx, userID, reminderID)
}

// ProcessDue fires every reminder whose time has come. One-shot reminders
// deactivate after delivery; repeating reminders advance to the next
// occurrence. A reminder whose delivery keeps failing stays due and will be
// retried on the next pass.
func (s *ReminderService) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.reminders.ListDue(ctx, now)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, reminder := range due {
		user, err := s.users.GetByID(ctx, reminder.UserID)
		if err != nil {
			s.logger.Error("Reminder owner lookup failed",
				zap.String("reminder_id", reminder.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if user.TelegramChatID == nil {
			continue
		}

		if err := s.send(ctx, *user.TelegramChatID, reminder); err != nil {
			s.logger.Warn("Reminder delivery failed",
				zap.String("reminder_id", reminder.ID.String()),
				zap.Error(err),
			)
			continue
		}

		fireTime := reminder.FireTime()
		reminder.LastSent = &now
		if next, ok := reminder.NextOccurrence(fireTime); ok {
			// Skip occurrences that already passed while the worker was down.
			for !next.After(now) {
				next, _ = reminder.NextOccurrence(next)
			}
			reminder.NextReminder = &next
		} else {
			reminder.IsActive = false
			reminder.NextReminder = nil
		}
		reminder.UpdatedAt = now

		if err := s.reminders.Update(ctx, reminder); err != nil {
			s.logger.Error("Failed to persist reminder state",
				zap.String("reminder_id", reminder.ID.String()),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("Processed due reminders", zap.Int("sent", sent), zap.Int("due", len(due)))
	}
	return sent, nil
}

func (s *ReminderService) send(ctx context.Context, chatID int64, reminder *models.Reminder) error {
	text := fmt.Sprintf("⏰ %s", reminder.Title)
	if reminder.Description != "" {
		text += "\n" + reminder.Description
	}
	if reminder.Amount != nil {
		text += fmt.Sprintf("\nСумма: %.2f", *reminder.Amount)
	}

	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		if lastErr = s.notifier.Notify(ctx, chatID, text); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
