package models

import (
	"time"

	"github.com/google/uuid"
)

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusFailed    GoalStatus = "failed"
	GoalStatusPaused    GoalStatus = "paused"
)

type ReminderInterval string

const (
	ReminderIntervalDaily   ReminderInterval = "daily"
	ReminderIntervalWeekly  ReminderInterval = "weekly"
	ReminderIntervalMonthly ReminderInterval = "monthly"
	ReminderIntervalNever   ReminderInterval = "never"
)

type Goal struct {
	ID               uuid.UUID        `db:"id"`
	UserID           uuid.UUID        `db:"user_id"`
	Title            string           `db:"title"`
	Description      string           `db:"description"`
	TargetAmount     float64          `db:"target_amount"`
	CurrentAmount    float64          `db:"current_amount"`
	Deadline         time.Time        `db:"deadline"`
	Status           GoalStatus       `db:"status"`
	ReminderInterval ReminderInterval `db:"reminder_interval"`
	LastReminderSent *time.Time       `db:"last_reminder_sent"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

// GoalTransaction is an append-only contribution record toward a goal.
type GoalTransaction struct {
	ID          uuid.UUID `db:"id"`
	GoalID      uuid.UUID `db:"goal_id"`
	Amount      float64   `db:"amount"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (g *Goal) IsActive() bool {
	return g.Status == GoalStatusActive
}

// ReminderDue reports whether a progress reminder should go out: the goal
// is active, reminders are enabled, and the interval has elapsed since the
// last one (or since creation when none was sent yet).
func (g *Goal) ReminderDue(now time.Time) bool {
	if g.Status != GoalStatusActive || g.ReminderInterval == ReminderIntervalNever {
		return false
	}
	last := g.CreatedAt
	if g.LastReminderSent != nil {
		last = *g.LastReminderSent
	}
	switch g.ReminderInterval {
	case ReminderIntervalDaily:
		return !now.Before(last.AddDate(0, 0, 1))
	case ReminderIntervalWeekly:
		return !now.Before(last.AddDate(0, 0, 7))
	case ReminderIntervalMonthly:
		return !now.Before(last.AddDate(0, 1, 0))
	}
	return false
}

// ProgressPercentage returns completion in percent, capped at 100.
func (g *Goal) ProgressPercentage() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	progress := g.CurrentAmount / g.TargetAmount * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// RemainingAmount returns what is left to save, never negative.
func (g *Goal) RemainingAmount() float64 {
	remaining := g.TargetAmount - g.CurrentAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsOverdue reports whether an active goal passed its deadline.
func (g *Goal) IsOverdue(now time.Time) bool {
	return g.Status == GoalStatusActive && now.After(g.Deadline)
}

func (g *Goal) DaysLeft(now time.Time) int {
	if !g.Deadline.After(now) {
		return 0
	}
	return int(g.Deadline.Sub(now).Hours() / 24)
}
