package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"go.uber.org/zap"
)

// Default periods when the request names none
const (
	DefaultRevenuePeriod = "30days"
	DefaultExpensePeriod = PeriodAll
)

// DashboardService computes the dashboard aggregates on demand from the
// caller's bills, expenses, sites and clients
type DashboardService struct {
	billRepo    *repository.BillRepository
	expenseRepo *repository.ExpenseRepository
	siteRepo    *repository.SiteRepository
	clientRepo  *repository.ClientRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewDashboardService(
	billRepo *repository.BillRepository,
	expenseRepo *repository.ExpenseRepository,
	siteRepo *repository.SiteRepository,
	clientRepo *repository.ClientRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		billRepo:    billRepo,
		expenseRepo: expenseRepo,
		siteRepo:    siteRepo,
		clientRepo:  clientRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// RevenueChart buckets revenue, expenses and profit over period. An empty
// groupBy uses the period's default bucket size.
func (s *DashboardService) RevenueChart(ctx context.Context, period, groupBy string) (*domain.RevenueChartDTO, error) {
	if period == "" {
		period = DefaultRevenuePeriod
	}
	end := s.now().UTC()
	start, autoGroupBy, err := ResolvePeriod(period, end)
	if err != nil {
		return nil, err
	}
	if groupBy == "" {
		groupBy = autoGroupBy
	} else if !groupings[groupBy] {
		return nil, newValidationError("groupBy", "Must be one of: day week month year")
	}

	bills, err := s.billRepo.ListSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}
	expenses, err := s.expenseRepo.ListSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	points, totals := RevenueSeries(bills, expenses, groupBy, start, end)
	return &domain.RevenueChartDTO{
		Period:    period,
		GroupBy:   groupBy,
		StartDate: start,
		EndDate:   end,
		Data:      points,
		Totals:    totals,
	}, nil
}

// SiteStatusDistribution counts the caller's sites per status
func (s *DashboardService) SiteStatusDistribution(ctx context.Context) (*domain.SiteStatusDistributionDTO, error) {
	sites, err := s.siteRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	dist := SiteStatusDistribution(sites)
	return &dist, nil
}

// ExpenseBreakdown sums expenses per type over period
func (s *DashboardService) ExpenseBreakdown(ctx context.Context, period string) (*domain.ExpenseBreakdownDTO, error) {
	if period == "" {
		period = DefaultExpensePeriod
	}
	end := s.now().UTC()
	start, _, err := ResolvePeriod(period, end)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.ListSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	inWindow := expenses[:0]
	for _, e := range expenses {
		if within(e.ExpenseDate, start, end) {
			inWindow = append(inWindow, e)
		}
	}

	byType, total := ExpenseBreakdown(inWindow)
	return &domain.ExpenseBreakdownDTO{Period: period, ByType: byType, Total: total}, nil
}

// TopClients ranks the caller's clients by revenue or project count
func (s *DashboardService) TopClients(ctx context.Context, sortBy string, limit int) ([]domain.TopClientDTO, error) {
	if sortBy != TopClientsByProjects {
		sortBy = TopClientsByRevenue
	}

	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	sites, err := s.siteRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	bills, err := s.billRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}

	return TopClients(clients, sites, bills, sortBy, limit), nil
}
