package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"go.uber.org/zap"
)

// ReminderJobName is the name of the reminder sweep job
const ReminderJobName = "reminder_sweep"

// AdminLister lists every tenant the per-admin jobs iterate over
type AdminLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ReminderSource computes the reminders due for the admin in ctx
type ReminderSource interface {
	Due(ctx context.Context, days int) (*domain.RemindersDTO, error)
}

// ReminderJob logs, per admin, the vehicle, instrument and enquiry dates
// falling due within the window.
type ReminderJob struct {
	admins     AdminLister
	reminders  ReminderSource
	logger     *zap.Logger
	windowDays int
}

// NewReminderJob creates a new reminder sweep job
func NewReminderJob(admins AdminLister, reminders ReminderSource, logger *zap.Logger, windowDays int) *ReminderJob {
	return &ReminderJob{
		admins:     admins,
		reminders:  reminders,
		logger:     logger,
		windowDays: windowDays,
	}
}

// Run executes one sweep. A failure for one admin does not stop the rest;
// only failing to list the admins fails the run.
func (j *ReminderJob) Run(ctx context.Context) error {
	swept, failed, err := j.sweep(ctx)
	if err != nil {
		return err
	}
	j.logger.Info("reminder sweep completed",
		zap.Int("admins_swept", swept),
		zap.Int("admins_failed", failed))
	return nil
}

func (j *ReminderJob) sweep(ctx context.Context) (swept, failed int, err error) {
	ids, err := j.admins.ListIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list admins: %w", err)
	}

	for _, adminID := range ids {
		if ctx.Err() != nil {
			j.logger.Warn("reminder sweep timed out", zap.Int("remaining", len(ids)-swept-failed))
			break
		}

		due, err := j.reminders.Due(auth.WithAdminID(ctx, adminID), j.windowDays)
		if err != nil {
			failed++
			j.logger.Error("reminder sweep failed for admin",
				zap.String("admin_id", adminID.String()),
				zap.Error(err))
			continue
		}
		swept++

		total := len(due.Vehicles) + len(due.Instruments) + len(due.Enquiries)
		if total == 0 {
			continue
		}
		j.logger.Info("reminders due",
			zap.String("admin_id", adminID.String()),
			zap.Int("window_days", due.WindowDays),
			zap.Int("vehicles", len(due.Vehicles)),
			zap.Int("instruments", len(due.Instruments)),
			zap.Int("enquiries", len(due.Enquiries)))
	}
	return swept, failed, nil
}

// RegisterReminderJob registers the reminder sweep with the scheduler
func RegisterReminderJob(scheduler *Scheduler, admins AdminLister, reminders ReminderSource, logger *zap.Logger, cronExpr string, windowDays int) error {
	job := NewReminderJob(admins, reminders, logger, windowDays)
	return scheduler.AddJob(ReminderJobName, cronExpr, job.Run)
}
