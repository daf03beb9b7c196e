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

var (
	ErrGoalNotActive   = errors.New("goal is not active")
	ErrGoalNotPaused   = errors.New("goal is not paused")
	ErrGoalCompleted   = errors.New("goal is already completed")
	ErrGoalOverdue     = errors.New("goal deadline has passed")
	ErrDeadlineInPast  = errors.New("deadline must be in the future")
	ErrInvalidTarget   = errors.New("target amount must be positive")
)

type GoalService struct {
	goals        GoalStore
	transactions TransactionStore
	users        UserStore
	notifier     Notifier
	logger       *zap.Logger
}

func NewGoalService(goals GoalStore, transactions TransactionStore, users UserStore, notifier Notifier, logger *zap.Logger) *GoalService {
	return &GoalService{
		goals:        goals,
		transactions: transactions,
		users:        users,
		notifier:     notifier,
		logger:       logger,
	}
}

type CreateGoalInput struct {
	Title            string
	Description      string
	TargetAmount     float64
	Deadline         time.Time
	ReminderInterval models.ReminderInterval
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, in CreateGoalInput) (*models.Goal, error) {
	if in.TargetAmount <= 0 {
		return nil, ErrInvalidTarget
	}
	if !in.Deadline.After(time.Now()) {
		return nil, ErrDeadlineInPast
	}

	interval := in.ReminderInterval
	if interval == "" {
		interval = models.ReminderIntervalWeekly
	}

	now := time.Now()
	goal := &models.Goal{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            in.Title,
		Description:      in.Description,
		TargetAmount:     in.TargetAmount,
		CurrentAmount:    0,
		Deadline:         in.Deadline,
		Status:           models.GoalStatusActive,
		ReminderInterval: interval,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}

	s.logger.Info("Created goal",
		zap.String("goal_id", goal.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return goal, nil
}

// AddProgress records a contribution toward an active goal. The amount is
// clamped so current never exceeds target, and reaching the target
// completes the goal exactly once. With withdrawFromBalance the aggregate
// balance is checked first and a balance-reducing ledger entry is written
// in the same database transaction as the contribution.
func (s *GoalService) AddProgress(ctx context.Context, userID, goalID uuid.UUID, amount float64, description string, withdrawFromBalance bool) (*models.GoalTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	goal, err := s.goals.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if !goal.IsActive() {
		return nil, ErrGoalNotActive
	}

	// Clamp the contribution to what the goal still needs.
	contribution := amount
	if remaining := goal.RemainingAmount(); contribution > remaining {
		contribution = remaining
	}

	if withdrawFromBalance {
		balance, err := s.transactions.SumBalance(ctx, userID)
		if err != nil {
			return nil, err
		}
		if balance < contribution {
			return nil, ErrInsufficientBalance
		}
	}

	now := time.Now()
	if description == "" {
		description = fmt.Sprintf("Пополнение цели «%s»", goal.Title)
	}

	gt := &models.GoalTransaction{
		ID:          uuid.New(),
		GoalID:      goal.ID,
		Amount:      contribution,
		Description: description,
		CreatedAt:   now,
	}

	goal.CurrentAmount += contribution
	if goal.CurrentAmount >= goal.TargetAmount {
		goal.CurrentAmount = goal.TargetAmount
		goal.Status = models.GoalStatusCompleted
	}
	goal.UpdatedAt = now

	var withdrawal *models.Transaction
	if withdrawFromBalance {
		withdrawal = &models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Amount:      contribution,
			Type:        models.TransactionTypeExpense,
			Description: description,
			Date:        now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	if err := s.goals.SaveProgress(ctx, goal, gt, withdrawal); err != nil {
		return nil, err
	}

	s.logger.Info("Goal progress added",
		zap.String("goal_id", goal.ID.String()),
		zap.Float64("amount", contribution),
		zap.String("status", string(goal.Status)),
	)

	if goal.Status == models.GoalStatusCompleted {
		s.notifyUser(ctx, userID, fmt.Sprintf("🎉 Цель «%s» достигнута! Накоплено %.2f", goal.Title, goal.TargetAmount))
	}

	return gt, nil
}

func (s *GoalService) Pause(ctx context.Context, userID, goalID uuid.UUID) (*models.Goal, error) {
	goal, err := s.goals.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status != models.GoalStatusActive {
		return nil, ErrGoalNotActive
	}

	goal.Status = models.GoalStatusPaused
	goal.UpdatedAt = time.Now()
	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Resume reactivates a paused or failed goal. A goal whose deadline has
// already passed cannot come back.
func (s *GoalService) Resume(ctx context.Context, userID, goalID uuid.UUID) (*models.Goal, error) {
	goal, err := s.goals.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status != models.GoalStatusPaused && goal.Status != models.GoalStatusFailed {
		return nil, ErrGoalNotPaused
	}
	if time.Now().After(goal.Deadline) {
		return nil, ErrGoalOverdue
	}

	goal.Status = models.GoalStatusActive
	goal.UpdatedAt = time.Now()
	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Fail(ctx context.Context, userID, goalID uuid.UUID) (*models.Goal, error) {
	goal, err := s.goals.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status == models.GoalStatusCompleted {
		return nil, ErrGoalCompleted
	}

	goal.Status = models.GoalStatusFailed
	goal.UpdatedAt = time.Now()
	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Get(ctx context.Context, userID, goalID uuid.UUID) (*models.Goal, error) {
	return s.goals.GetByID(ctx, userID, goalID)
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	return s.goals.List(ctx, userID)
}

func (s *GoalService) ListTransactions(ctx context.Context, userID, goalID uuid.UUID) ([]*models.GoalTransaction, error) {
	if _, err := s.goals.GetByID(ctx, userID, goalID); err != nil {
		return nil, err
	}
	return s.goals.ListTransactions(ctx, goalID)
}

// ProcessReminders sends periodic progress reminders for active goals and
// returns how many went out. Called by the scheduler alongside the regular
// reminder scan.
func (s *GoalService) ProcessReminders(ctx context.Context, now time.Time) (int, error) {
	goals, err := s.goals.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active goals: %w", err)
	}

	sent := 0
	for _, goal := range goals {
		if !goal.ReminderDue(now) {
			continue
		}

		s.notifyUser(ctx, goal.UserID, fmt.Sprintf(
			"🎯 Цель «%s»: %.0f%%\nНакоплено %.2f из %.2f, осталось %.2f",
			goal.Title, goal.ProgressPercentage(),
			goal.CurrentAmount, goal.TargetAmount, goal.RemainingAmount(),
		))

		sentAt := now
		goal.LastReminderSent = &sentAt
		goal.UpdatedAt = now
		if err := s.goals.Update(ctx, goal); err != nil {
			s.logger.Error("Failed to record goal reminder",
				zap.String("goal_id", goal.ID.String()),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	return sent, nil
}

func (s *GoalService) notifyUser(ctx context.Context, userID uuid.UUID, text string) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user.TelegramChatID == nil {
		return
	}
	if err := s.notifier.Notify(ctx, *user.TelegramChatID, text); err != nil {
		s.logger.Warn("Telegram notification failed",
			zap.Int64("chat_id", *user.TelegramChatID),
			zap.Error(err),
		)
	}
}
