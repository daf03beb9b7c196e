// Package scheduler runs the periodic background work: firing due
// reminders and marking overdue debts.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ovozpay/internal/service"
	"ovozpay/pkg/config"
)

type Scheduler struct {
	reminders *service.ReminderService
	debts     *service.DebtService
	goals     *service.GoalService
	cfg       *config.SchedulerConfig
	logger    *zap.Logger
}

func New(reminders *service.ReminderService, debts *service.DebtService, goals *service.GoalService, cfg *config.SchedulerConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		debts:     debts,
		goals:     goals,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run blocks until the context is cancelled. Each scan runs on its own
// ticker so a slow reminder pass does not delay the overdue scan.
func (s *Scheduler) Run(ctx context.Context) {
	reminderTicker := time.NewTicker(s.cfg.ReminderInterval)
	overdueTicker := time.NewTicker(s.cfg.OverdueInterval)
	defer reminderTicker.Stop()
	defer overdueTicker.Stop()

	s.logger.Info("Scheduler started",
		zap.Duration("reminder_interval", s.cfg.ReminderInterval),
		zap.Duration("overdue_interval", s.cfg.OverdueInterval),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-reminderTicker.C:
			now := time.Now()
			if _, err := s.reminders.ProcessDue(ctx, now); err != nil {
				s.logger.Error("Reminder scan failed", zap.Error(err))
			}
			if _, err := s.goals.ProcessReminders(ctx, now); err != nil {
				s.logger.Error("Goal reminder scan failed", zap.Error(err))
			}
		case <-overdueTicker.C:
			count, err := s.debts.MarkOverdue(ctx, time.Now())
			if err != nil {
				s.logger.Error("Overdue scan failed", zap.Error(err))
				continue
			}
			if count > 0 {
				s.logger.Info("Marked debts overdue", zap.Int64("count", count))
			}
		}
	}
}
