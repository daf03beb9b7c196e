package models

import (
	"time"

	"github.com/google/uuid"
)

type ReminderType string

const (
	ReminderTypePayment ReminderType = "payment"
	ReminderTypeDebt    ReminderType = "debt"
	ReminderTypeGoal    ReminderType = "goal"
	ReminderTypeCustom  ReminderType = "custom"
)

type ReminderRepeat string

const (
	ReminderRepeatOnce    ReminderRepeat = "once"
	ReminderRepeatDaily   ReminderRepeat = "daily"
	ReminderRepeatWeekly  ReminderRepeat = "weekly"
	ReminderRepeatMonthly ReminderRepeat = "monthly"
)

type Reminder struct {
	ID            uuid.UUID      `db:"id"`
	UserID        uuid.UUID      `db:"user_id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	Type          ReminderType   `db:"reminder_type"`
	ScheduledTime time.Time      `db:"scheduled_time"`
	Repeat        ReminderRepeat `db:"repeat"`
	Amount        *float64       `db:"amount"`
	GoalID        *uuid.UUID     `db:"goal_id"`
	IsActive      bool           `db:"is_active"`
	LastSent      *time.Time     `db:"last_sent"`
	NextReminder  *time.Time     `db:"next_reminder"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// FireTime is the moment the reminder is next due: NextReminder once the
// reminder has been sent at least once, ScheduledTime before that.
func (r *Reminder) FireTime() time.Time {
	if r.NextReminder != nil {
		return *r.NextReminder
	}
	return r.ScheduledTime
}

// IsDue reports whether an active reminder should fire now.
func (r *Reminder) IsDue(now time.Time) bool {
	return r.IsActive && !now.Before(r.FireTime())
}

// NextOccurrence advances from the given fire time by the repeat interval.
// Returns false for one-shot reminders.
func (r *Reminder) NextOccurrence(from time.Time) (time.Time, bool) {
	switch r.Repeat {
	case ReminderRepeatDaily:
		return from.AddDate(0, 0, 1), true
	case ReminderRepeatWeekly:
		return from.AddDate(0, 0, 7), true
	case ReminderRepeatMonthly:
		return from.AddDate(0, 1, 0), true
	default:
		return time.Time{}, false
	}
}
