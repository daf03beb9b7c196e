package service

import (
	"context"
	"testing"
	"time"

	"ovozpay/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGoalFixture(t *testing.T, target float64) (*GoalService, *fakeGoalStore, *fakeTransactionStore, *models.User, *models.Goal) {
	t.Helper()

	users := newFakeUserStore()
	goals := newFakeGoalStore()
	transactions := newFakeTransactionStore()
	notifier := &fakeNotifier{}
	user := newTestUser(users, 555)

	goal := &models.Goal{
		ID:               uuid.New(),
		UserID:           user.ID,
		Title:            "Отпуск",
		TargetAmount:     target,
		Deadline:         time.Now().Add(90 * 24 * time.Hour),
		Status:           models.GoalStatusActive,
		ReminderInterval: models.ReminderIntervalWeekly,
	}
	goals.goals[goal.ID] = goal

	svc := NewGoalService(goals, transactions, users, notifier, zap.NewNop())
	return svc, goals, transactions, user, goal
}

func TestAddProgressCompletesGoalExactlyOnce(t *testing.T) {
	svc, goals, _, user, goal := newGoalFixture(t, 500000)
	ctx := context.Background()

	_, err := svc.AddProgress(ctx, user.ID, goal.ID, 300000, "", false)
	require.NoError(t, err)

	_, err = svc.AddProgress(ctx, user.ID, goal.ID, 200000, "", false)
	require.NoError(t, err)

	stored := goals.goals[goal.ID]
	assert.Equal(t, models.GoalStatusCompleted, stored.Status)
	assert.Equal(t, 500000.0, stored.CurrentAmount)

	// Contributions to a completed goal are rejected.
	_, err = svc.AddProgress(ctx, user.ID, goal.ID, 1, "", false)
	assert.ErrorIs(t, err, ErrGoalNotActive)
}

func TestAddProgressClampsToTarget(t *testing.T) {
	svc, goals, _, user, goal := newGoalFixture(t, 500000)
	ctx := context.Background()

	_, err := svc.AddProgress(ctx, user.ID, goal.ID, 450000, "", false)
	require.NoError(t, err)

	// An oversized contribution is clamped to what the goal still needs.
	gt, err := svc.AddProgress(ctx, user.ID, goal.ID, 100000, "", false)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, gt.Amount)

	stored := goals.goals[goal.ID]
	assert.Equal(t, 500000.0, stored.CurrentAmount)
	assert.Equal(t, models.GoalStatusCompleted, stored.Status)
}

func TestAddProgressWithdrawChecksBalance(t *testing.T) {
	svc, goals, transactions, user, goal := newGoalFixture(t, 500000)
	ctx := context.Background()

	// Balance is zero, withdrawal must be rejected.
	_, err := svc.AddProgress(ctx, user.ID, goal.ID, 100000, "", true)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	income := &models.Transaction{
		ID:     uuid.New(),
		UserID: user.ID,
		Amount: 150000,
		Type:   models.TransactionTypeIncome,
		Date:   time.Now(),
	}
	transactions.transactions[income.ID] = income

	_, err = svc.AddProgress(ctx, user.ID, goal.ID, 100000, "", true)
	require.NoError(t, err)

	// The withdrawal expense is written together with the contribution.
	require.Len(t, goals.withdrawals, 1)
	assert.Equal(t, 100000.0, goals.withdrawals[0].Amount)
	assert.Equal(t, models.TransactionTypeExpense, goals.withdrawals[0].Type)
}

func TestAddProgressRejectsInactiveGoal(t *testing.T) {
	svc, goals, _, user, goal := newGoalFixture(t, 500000)
	ctx := context.Background()

	goals.goals[goal.ID].Status = models.GoalStatusPaused

	_, err := svc.AddProgress(ctx, user.ID, goal.ID, 1000, "", false)
	assert.ErrorIs(t, err, ErrGoalNotActive)
}

func TestPauseAndResume(t *testing.T) {
	svc, goals, _, user, goal := newGoalFixture(t, 500000)
	ctx := context.Background()

	paused, err := svc.Pause(ctx, user.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusPaused, paused.Status)

	resumed, err := svc.Resume(ctx, user.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusActive, resumed.Status)

	// Resume fails once the deadline is gone.
	goals.goals[goal.ID].Status = models.GoalStatusPaused
	goals.goals[goal.ID].Deadline = time.Now().Add(-time.Hour)
	_, err = svc.Resume(ctx, user.ID, goal.ID)
	assert.ErrorIs(t, err, ErrGoalOverdue)
}

func TestCreateGoalValidation(t *testing.T) {
	svc, _, _, user, _ := newGoalFixture(t, 500000)
	ctx := context.Background()

	_, err := svc.Create(ctx, user.ID, CreateGoalInput{
		Title:        "Нулевая",
		TargetAmount: 0,
		Deadline:     time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = svc.Create(ctx, user.ID, CreateGoalInput{
		Title:        "Просроченная",
		TargetAmount: 1000,
		Deadline:     time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrDeadlineInPast)
}

func TestProcessRemindersSendsWeeklyProgress(t *testing.T) {
	users := newFakeUserStore()
	goals := newFakeGoalStore()
	notifier := &fakeNotifier{}
	user := newTestUser(users, 555)

	now := time.Now()
	goal := &models.Goal{
		ID:               uuid.New(),
		UserID:           user.ID,
		Title:            "Отпуск",
		TargetAmount:     500000,
		CurrentAmount:    200000,
		Deadline:         now.Add(90 * 24 * time.Hour),
		Status:           models.GoalStatusActive,
		ReminderInterval: models.ReminderIntervalWeekly,
		CreatedAt:        now.AddDate(0, 0, -8),
	}
	goals.goals[goal.ID] = goal

	svc := NewGoalService(goals, newFakeTransactionStore(), users, notifier, zap.NewNop())
	ctx := context.Background()

	sent, err := svc.ProcessReminders(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Отпуск")

	stored := goals.goals[goal.ID]
	require.NotNil(t, stored.LastReminderSent)
	assert.True(t, stored.LastReminderSent.Equal(now))

	// The next pass within the same week stays quiet.
	sent, err = svc.ProcessReminders(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	// A week later it fires again.
	sent, err = svc.ProcessReminders(ctx, now.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestProcessRemindersSkipsInactiveGoals(t *testing.T) {
	users := newFakeUserStore()
	goals := newFakeGoalStore()
	notifier := &fakeNotifier{}
	user := newTestUser(users, 555)

	now := time.Now()
	paused := &models.Goal{
		ID:               uuid.New(),
		UserID:           user.ID,
		Title:            "Машина",
		TargetAmount:     900000,
		Deadline:         now.Add(60 * 24 * time.Hour),
		Status:           models.GoalStatusPaused,
		ReminderInterval: models.ReminderIntervalWeekly,
		CreatedAt:        now.AddDate(0, 0, -30),
	}
	silent := &models.Goal{
		ID:               uuid.New(),
		UserID:           user.ID,
		Title:            "Без напоминаний",
		TargetAmount:     100000,
		Deadline:         now.Add(60 * 24 * time.Hour),
		Status:           models.GoalStatusActive,
		ReminderInterval: models.ReminderIntervalNever,
		CreatedAt:        now.AddDate(0, 0, -30),
	}
	goals.goals[paused.ID] = paused
	goals.goals[silent.ID] = silent

	svc := NewGoalService(goals, newFakeTransactionStore(), users, notifier, zap.NewNop())

	sent, err := svc.ProcessReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, notifier.messages)
}
