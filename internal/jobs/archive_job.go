package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

// ArchiveJobName is the name of the monthly report archive job
const ArchiveJobName = "report_archive"

// MonthArchiver writes one month of reports for every admin
type MonthArchiver interface {
	ArchiveMonth(ctx context.Context, start, end time.Time) (*service.ArchiveResult, error)
}

// ArchiveJob archives the previous calendar month's bills and expenses
type ArchiveJob struct {
	archiver MonthArchiver
	logger   *zap.Logger
	now      func() time.Time
}

// NewArchiveJob creates a new report archive job
func NewArchiveJob(archiver MonthArchiver, logger *zap.Logger) *ArchiveJob {
	return &ArchiveJob{
		archiver: archiver,
		logger:   logger,
		now:      time.Now,
	}
}

// Run archives the month before the current one
func (j *ArchiveJob) Run(ctx context.Context) error {
	start, end := service.PreviousMonth(j.now())

	result, err := j.archiver.ArchiveMonth(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", start.Format("2006-01"), err)
	}

	j.logger.Info("report archive completed",
		zap.String("month", result.Month),
		zap.Int("admins", result.Admins),
		zap.Int("written", result.Written),
		zap.Int("failures", result.Failures))
	return nil
}

// RegisterArchiveJob registers the report archive with the scheduler
func RegisterArchiveJob(scheduler *Scheduler, archiver MonthArchiver, logger *zap.Logger, cronExpr string) error {
	job := NewArchiveJob(archiver, logger)
	return scheduler.AddJob(ArchiveJobName, cronExpr, job.Run)
}
