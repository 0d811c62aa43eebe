package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2024, 9, 20, 12, 0, 0, 0, time.UTC)

	start, groupBy, err := ResolvePeriod("30days", now)
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Equal(t, time.Date(2024, 8, 21, 12, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, GroupByDay, groupBy)

	start, groupBy, err = ResolvePeriod("6months", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, GroupByMonth, groupBy)

	start, _, err = ResolvePeriod(PeriodAll, now)
	require.NoError(t, err)
	assert.Nil(t, start)

	_, _, err = ResolvePeriod("fortnight", now)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "period")
}

func TestBucketKey(t *testing.T) {
	ts := day(2024, 9, 20)
	assert.Equal(t, "2024-09-20", BucketKey(ts, GroupByDay))
	assert.Equal(t, "2024-09", BucketKey(ts, GroupByMonth))
	assert.Equal(t, "2024", BucketKey(ts, GroupByYear))
	assert.Equal(t, "2024-W38", BucketKey(ts, GroupByWeek))

	// Dec 30 2024 is in ISO week 1 of 2025
	assert.Equal(t, "2025-W01", BucketKey(day(2024, 12, 30), GroupByWeek))
	assert.Equal(t, "2020-W53", BucketKey(day(2021, 1, 1), GroupByWeek))
}

func TestRevenueSeries(t *testing.T) {
	bills := []domain.Bill{
		{BillDate: day(2024, 9, 5), TotalAmount: 2000},
		{BillDate: day(2024, 9, 18), TotalAmount: 15000},
		{BillDate: day(2024, 8, 2), TotalAmount: 500},
		{BillDate: day(2023, 1, 1), TotalAmount: 99999},
	}
	expenses := []domain.Expense{
		{ExpenseDate: day(2024, 9, 10), Amount: 1000, Type: domain.ExpenseTypeFuel},
		{ExpenseDate: day(2024, 10, 1), Amount: 300, Type: domain.ExpenseTypeFood},
	}
	start := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 9, 30, 23, 59, 59, 0, time.UTC)

	points, totals := RevenueSeries(bills, expenses, GroupByMonth, &start, end)

	require.Len(t, points, 2)
	assert.Equal(t, "2024-08", points[0].Date)
	assert.Equal(t, 500.0, points[0].Revenue)
	assert.Equal(t, 1, points[0].BillCount)

	assert.Equal(t, "2024-09", points[1].Date)
	assert.Equal(t, 17000.0, points[1].Revenue)
	assert.Equal(t, 1000.0, points[1].Expenses)
	assert.Equal(t, 16000.0, points[1].Profit)
	assert.Equal(t, 2, points[1].BillCount)

	assert.Equal(t, 17500.0, totals.Revenue)
	assert.Equal(t, 1000.0, totals.Expenses)
	assert.Equal(t, 16500.0, totals.Profit)
	assert.Equal(t, 3, totals.BillCount)
}

func TestRevenueSeries_NilStartIncludesEverything(t *testing.T) {
	bills := []domain.Bill{
		{BillDate: day(2019, 4, 1), TotalAmount: 100},
		{BillDate: day(2030, 1, 1), TotalAmount: 2000},
	}
	expenses := []domain.Expense{{ExpenseDate: day(2030, 2, 1), Amount: 500, Type: domain.ExpenseTypeFuel}}
	end := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)

	points, totals := RevenueSeries(bills, expenses, GroupByYear, nil, end)

	require.Len(t, points, 2)
	assert.Equal(t, "2019", points[0].Date)
	assert.Equal(t, "2030", points[1].Date)
	assert.Equal(t, 2100.0, totals.Revenue)
	assert.Equal(t, 500.0, totals.Expenses)
}

func TestRevenueSeries_NoData(t *testing.T) {
	points, totals := RevenueSeries(nil, nil, GroupByDay, nil, time.Now())
	assert.NotNil(t, points)
	assert.Empty(t, points)
	assert.Zero(t, totals.Revenue)
}

func TestSiteStatusDistribution(t *testing.T) {
	sites := []domain.Site{
		{Status: domain.SiteStatusBillPaid},
		{Status: domain.SiteStatusPending},
		{Status: domain.SiteStatusPending},
	}

	dist := SiteStatusDistribution(sites)
	assert.Equal(t, 3, dist.Total)
	require.Len(t, dist.Statuses, 2)

	assert.Equal(t, string(domain.SiteStatusPending), dist.Statuses[0].Status)
	assert.Equal(t, 2, dist.Statuses[0].Count)
	assert.Equal(t, 66.7, dist.Statuses[0].Percentage)

	assert.Equal(t, string(domain.SiteStatusBillPaid), dist.Statuses[1].Status)
	assert.Equal(t, 33.3, dist.Statuses[1].Percentage)
}

func TestSiteStatusDistribution_Empty(t *testing.T) {
	dist := SiteStatusDistribution(nil)
	assert.Zero(t, dist.Total)
	assert.Empty(t, dist.Statuses)
}

func TestExpenseBreakdown(t *testing.T) {
	expenses := []domain.Expense{
		{Type: domain.ExpenseTypeSalary, Amount: 600},
		{Type: domain.ExpenseTypeFuel, Amount: 250},
		{Type: domain.ExpenseTypeFuel, Amount: 50},
		{Type: domain.ExpenseTypeFood, Amount: 100},
	}

	byType, total := ExpenseBreakdown(expenses)
	assert.Equal(t, 1000.0, total)
	require.Len(t, byType, 3)

	assert.Equal(t, "FUEL", byType[0].Type)
	assert.Equal(t, 300.0, byType[0].Amount)
	assert.Equal(t, 30.0, byType[0].Percentage)
	assert.Equal(t, 2, byType[0].Count)

	assert.Equal(t, "FOOD", byType[1].Type)
	assert.Equal(t, 10.0, byType[1].Percentage)

	assert.Equal(t, "SALARY", byType[2].Type)
	assert.Equal(t, 60.0, byType[2].Percentage)
}

func TestTopClients(t *testing.T) {
	acme := domain.Client{Name: "Acme"}
	acme.ID = uuid.New()
	bolt := domain.Client{Name: "Bolt"}
	bolt.ID = uuid.New()
	idle := domain.Client{Name: "Idle"}
	idle.ID = uuid.New()

	sites := []domain.Site{
		{ClientID: &bolt.ID, Status: domain.SiteStatusPending},
		{ClientID: &bolt.ID, Status: domain.SiteStatusProjectCompleted},
		{ClientID: &bolt.ID, Status: domain.SiteStatusBillPaid},
		{ClientID: &acme.ID, Status: domain.SiteStatusBillPaid},
		{Status: domain.SiteStatusPending},
	}
	bills := []domain.Bill{
		{CustomerID: acme.ID, TotalAmount: 9000, PaymentStatus: domain.PaymentStatusPaid},
		{CustomerID: acme.ID, TotalAmount: 1000, PaymentStatus: domain.PaymentStatusUnpaid},
		{CustomerID: bolt.ID, TotalAmount: 400, PaymentStatus: domain.PaymentStatusPartial},
	}
	clients := []domain.Client{idle, bolt, acme}

	t.Run("by revenue", func(t *testing.T) {
		top := TopClients(clients, sites, bills, TopClientsByRevenue, 0)
		require.Len(t, top, 3)
		assert.Equal(t, acme.ID, top[0].ID)
		assert.Equal(t, 10000.0, top[0].TotalRevenue)
		assert.Equal(t, 9000.0, top[0].PaidAmount)
		assert.Equal(t, 1000.0, top[0].PendingAmount)
		assert.Equal(t, bolt.ID, top[1].ID)
		assert.Equal(t, idle.ID, top[2].ID)
	})

	t.Run("by projects", func(t *testing.T) {
		top := TopClients(clients, sites, bills, TopClientsByProjects, 2)
		require.Len(t, top, 2)
		assert.Equal(t, bolt.ID, top[0].ID)
		assert.Equal(t, 3, top[0].TotalProjects)
		assert.Equal(t, 1, top[0].CompletedProjects)
		assert.Equal(t, 2, top[0].ActiveProjects)
		assert.Equal(t, acme.ID, top[1].ID)
	})

	t.Run("unknown sort falls back to revenue", func(t *testing.T) {
		top := TopClients(clients, sites, bills, "bogus", 1)
		require.Len(t, top, 1)
		assert.Equal(t, acme.ID, top[0].ID)
	})
}
