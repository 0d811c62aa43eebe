package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/storage"
	"go.uber.org/zap"
)

// ReportArchiveService writes monthly bill and expense workbooks for every
// admin into object storage
type ReportArchiveService struct {
	adminRepo *repository.AdminRepository
	exports   *ExportService
	store     storage.Storage
	logger    *zap.Logger
}

// NewReportArchiveService creates a new ReportArchiveService
func NewReportArchiveService(
	adminRepo *repository.AdminRepository,
	exports *ExportService,
	store storage.Storage,
	logger *zap.Logger,
) *ReportArchiveService {
	return &ReportArchiveService{
		adminRepo: adminRepo,
		exports:   exports,
		store:     store,
		logger:    logger,
	}
}

// ArchiveResult summarises one archive run
type ArchiveResult struct {
	Month    string
	Admins   int
	Written  int
	Failures int
}

// PreviousMonth returns the first instant of the month before now and the
// last instant of that month, both UTC
func PreviousMonth(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

// ReportKey is the storage key of one archived workbook
func ReportKey(adminID uuid.UUID, month time.Time, name string) string {
	return fmt.Sprintf("reports/%s/%s/%s.xlsx", adminID, month.Format("2006-01"), name)
}

// ArchiveMonth writes the workbooks for the month containing start. A
// failure for one admin is logged and does not stop the others.
func (s *ReportArchiveService) ArchiveMonth(ctx context.Context, start, end time.Time) (*ArchiveResult, error) {
	adminIDs, err := s.adminRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	result := &ArchiveResult{Month: start.Format("2006-01"), Admins: len(adminIDs)}
	for _, adminID := range adminIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		written, err := s.archiveAdmin(auth.WithAdminID(ctx, adminID), adminID, start, end)
		result.Written += written
		if err != nil {
			result.Failures++
			s.logger.Error("failed to archive monthly reports",
				zap.String("admin_id", adminID.String()),
				zap.String("month", result.Month),
				zap.Error(err))
		}
	}

	s.logger.Info("monthly reports archived",
		zap.String("month", result.Month),
		zap.Int("admins", result.Admins),
		zap.Int("written", result.Written),
		zap.Int("failures", result.Failures))
	return result, nil
}

func (s *ReportArchiveService) archiveAdmin(ctx context.Context, adminID uuid.UUID, start, end time.Time) (int, error) {
	q := repository.ListQuery{StartDate: &start, EndDate: &end, SortBy: "billDate", SortOrder: repository.SortOrderAsc}

	bills, err := s.exports.BillsWorkbook(ctx, q)
	if err != nil {
		return 0, err
	}
	if _, err := s.store.Put(ctx, ReportKey(adminID, start, "bills"), XLSXContentType, bills); err != nil {
		return 0, fmt.Errorf("failed to store bills workbook: %w", err)
	}

	q.SortBy = "expenseDate"
	expenses, err := s.exports.ExpensesWorkbook(ctx, q)
	if err != nil {
		return 1, err
	}
	if _, err := s.store.Put(ctx, ReportKey(adminID, start, "expenses"), XLSXContentType, expenses); err != nil {
		return 1, fmt.Errorf("failed to store expenses workbook: %w", err)
	}
	return 2, nil
}
