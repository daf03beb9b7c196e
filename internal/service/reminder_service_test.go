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

func newReminderFixture(t *testing.T) (*ReminderService, *fakeReminderStore, *fakeNotifier, *models.User) {
	t.Helper()

	users := newFakeUserStore()
	reminders := newFakeReminderStore()
	notifier := &fakeNotifier{}
	user := newTestUser(users, 333)

	svc := NewReminderService(reminders, users, notifier, zap.NewNop())
	return svc, reminders, notifier, user
}

func addReminder(store *fakeReminderStore, userID uuid.UUID, scheduled time.Time, repeat models.ReminderRepeat) *models.Reminder {
	r := &models.Reminder{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         "Оплата интернета",
		Type:          models.ReminderTypePayment,
		ScheduledTime: scheduled,
		Repeat:        repeat,
		IsActive:      true,
	}
	store.reminders[r.ID] = r
	return r
}

func TestProcessDueOnceDeactivates(t *testing.T) {
	svc, reminders, notifier, user := newReminderFixture(t)
	now := time.Now()

	r := addReminder(reminders, user.ID, now.Add(-time.Minute), models.ReminderRepeatOnce)

	sent, err := svc.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, notifier.messages, 1)

	stored := reminders.reminders[r.ID]
	assert.False(t, stored.IsActive)
	assert.Nil(t, stored.NextReminder)
	require.NotNil(t, stored.LastSent)
}

func TestProcessDueWeeklyAdvancesOneWeek(t *testing.T) {
	svc, reminders, _, user := newReminderFixture(t)
	now := time.Now()

	fireAt := now.Add(-time.Minute)
	r := addReminder(reminders, user.ID, fireAt, models.ReminderRepeatWeekly)

	sent, err := svc.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	stored := reminders.reminders[r.ID]
	assert.True(t, stored.IsActive)
	require.NotNil(t, stored.NextReminder)
	assert.Equal(t, fireAt.AddDate(0, 0, 7), *stored.NextReminder)
}

func TestProcessDueSkipsMissedOccurrences(t *testing.T) {
	svc, reminders, _, user := newReminderFixture(t)
	now := time.Now()

	// The worker was down for three weeks; next fire lands in the future.
	fireAt := now.AddDate(0, 0, -21).Add(-time.Minute)
	r := addReminder(reminders, user.ID, fireAt, models.ReminderRepeatWeekly)

	_, err := svc.ProcessDue(context.Background(), now)
	require.NoError(t, err)

	stored := reminders.reminders[r.ID]
	require.NotNil(t, stored.NextReminder)
	assert.True(t, stored.NextReminder.After(now))
}

func TestProcessDueRetriesDelivery(t *testing.T) {
	svc, reminders, notifier, user := newReminderFixture(t)
	now := time.Now()

	addReminder(reminders, user.ID, now.Add(-time.Minute), models.ReminderRepeatOnce)
	notifier.failN = 2 // first two attempts fail, third succeeds

	sent, err := svc.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 3, notifier.attempts)
}

func TestProcessDueLeavesFailedReminderDue(t *testing.T) {
	svc, reminders, notifier, user := newReminderFixture(t)
	now := time.Now()

	r := addReminder(reminders, user.ID, now.Add(-time.Minute), models.ReminderRepeatOnce)
	notifier.failN = 10 // all attempts fail

	sent, err := svc.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	// Still active and due, so the next pass retries it.
	stored := reminders.reminders[r.ID]
	assert.True(t, stored.IsActive)
	assert.Nil(t, stored.LastSent)
}

func TestCreateRejectsPastSchedule(t *testing.T) {
	svc, _, _, user := newReminderFixture(t)

	_, err := svc.Create(context.Background(), user.ID, CreateReminderInput{
		Title:         "Просроченное",
		ScheduledTime: time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrScheduleInPast)
}

func TestCreateDefaults(t *testing.T) {
	svc, _, _, user := newReminderFixture(t)

	r, err := svc.Create(context.Background(), user.ID, CreateReminderInput{
		Title:         "Без типа",
		ScheduledTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReminderTypeCustom, r.Type)
	assert.Equal(t, models.ReminderRepeatOnce, r.Repeat)
	assert.True(t, r.IsActive)
}
