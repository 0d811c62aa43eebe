package service

import (
	"testing"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_RevenueChart(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	other := testutil.CreateTestAdmin(t, svc.db, "other")
	ctx := testutil.AdminContext(admin)
	svc.dashboard.now = func() time.Time { return time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC) }

	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	siteA := testutil.CreateTestSite(t, svc.db, admin, "A", &client.ID)
	siteB := testutil.CreateTestSite(t, svc.db, admin, "B", &client.ID)

	small := billRequest(client.ID, "1", siteA)
	small.BillDate = date(2024, 9, 3)
	small.Items[0].Amount = 2000
	large := billRequest(client.ID, "2", siteB)
	large.BillDate = date(2024, 9, 18)
	large.Items[0].Amount = 15000
	for _, req := range []*domain.CreateBillRequest{small, large} {
		_, err := svc.bills.Create(ctx, req)
		require.NoError(t, err)
	}

	amount := 1000.0
	_, err := svc.expenses.Create(ctx, &domain.CreateExpenseRequest{Type: "FUEL", Amount: &amount, ExpenseDate: date(2024, 9, 12)})
	require.NoError(t, err)

	// Another admin's money never shows up
	otherClient := testutil.CreateTestClient(t, svc.db, other, "Bolt")
	otherSite := testutil.CreateTestSite(t, svc.db, other, "Z", &otherClient.ID)
	_, err = svc.bills.Create(testutil.AdminContext(other), billRequest(otherClient.ID, "1", otherSite))
	require.NoError(t, err)

	chart, err := svc.dashboard.RevenueChart(ctx, "6months", "month")
	require.NoError(t, err)
	assert.Equal(t, "6months", chart.Period)
	require.Len(t, chart.Data, 1)
	assert.Equal(t, "2024-09", chart.Data[0].Date)
	assert.Equal(t, 17000.0, chart.Totals.Revenue)
	assert.Equal(t, 1000.0, chart.Totals.Expenses)
	assert.Equal(t, 16000.0, chart.Totals.Profit)
	assert.Equal(t, 2, chart.Totals.BillCount)

	daily, err := svc.dashboard.RevenueChart(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRevenuePeriod, daily.Period)
	assert.Equal(t, GroupByDay, daily.GroupBy)
	assert.Len(t, daily.Data, 3)

	_, err = svc.dashboard.RevenueChart(ctx, "30days", "hour")
	assert.Error(t, err)
}

func TestDashboardService_AllPeriodHasNoWindow(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	svc.dashboard.now = func() time.Time { return time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC) }

	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	past := testutil.CreateTestSite(t, svc.db, admin, "A", &client.ID)
	future := testutil.CreateTestSite(t, svc.db, admin, "B", &client.ID)

	old := billRequest(client.ID, "1", past)
	old.BillDate = date(2022, 3, 14)
	old.Items[0].Amount = 750
	ahead := billRequest(client.ID, "2", future)
	ahead.BillDate = date(2024, 10, 15)
	ahead.Items[0].Amount = 2000
	for _, req := range []*domain.CreateBillRequest{old, ahead} {
		_, err := svc.bills.Create(ctx, req)
		require.NoError(t, err)
	}

	amount := 500.0
	_, err := svc.expenses.Create(ctx, &domain.CreateExpenseRequest{Type: "FUEL", Amount: &amount, ExpenseDate: date(2024, 10, 20)})
	require.NoError(t, err)

	chart, err := svc.dashboard.RevenueChart(ctx, PeriodAll, GroupByMonth)
	require.NoError(t, err)
	assert.Nil(t, chart.StartDate)
	require.Len(t, chart.Data, 2)
	assert.Equal(t, "2022-03", chart.Data[0].Date)
	assert.Equal(t, "2024-10", chart.Data[1].Date)
	assert.Equal(t, 2000.0, chart.Data[1].Revenue)
	assert.Equal(t, 500.0, chart.Data[1].Expenses)
	assert.Equal(t, 2750.0, chart.Totals.Revenue)
	assert.Equal(t, 500.0, chart.Totals.Expenses)
	assert.Equal(t, 2, chart.Totals.BillCount)

	breakdown, err := svc.dashboard.ExpenseBreakdown(ctx, PeriodAll)
	require.NoError(t, err)
	assert.Equal(t, 500.0, breakdown.Total)
	require.Len(t, breakdown.ByType, 1)
	assert.Equal(t, 100.0, breakdown.ByType[0].Percentage)

	// A bounded period still stops at now
	recent, err := svc.dashboard.ExpenseBreakdown(ctx, "30days")
	require.NoError(t, err)
	assert.Zero(t, recent.Total)
}

func TestDashboardService_Breakdowns(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	svc.dashboard.now = func() time.Time { return time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC) }

	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	site := testutil.CreateTestSite(t, svc.db, admin, "A", &client.ID)
	testutil.CreateTestSite(t, svc.db, admin, "B", nil)

	paid := billRequest(client.ID, "5", site)
	paid.PaymentStatus = "PAID"
	_, err := svc.bills.Create(ctx, paid)
	require.NoError(t, err)

	dist, err := svc.dashboard.SiteStatusDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dist.Total)
	require.Len(t, dist.Statuses, 2)
	assert.Equal(t, string(domain.SiteStatusPending), dist.Statuses[0].Status)
	assert.Equal(t, string(domain.SiteStatusBillPaid), dist.Statuses[1].Status)
	assert.Equal(t, 50.0, dist.Statuses[1].Percentage)

	for _, e := range []struct {
		kind   string
		amount float64
		on     *domain.Date
	}{
		{"FUEL", 300, date(2024, 9, 25)},
		{"SALARY", 700, date(2024, 9, 26)},
		{"FOOD", 999, date(2023, 1, 1)},
	} {
		amount := e.amount
		_, err := svc.expenses.Create(ctx, &domain.CreateExpenseRequest{Type: e.kind, Amount: &amount, ExpenseDate: e.on})
		require.NoError(t, err)
	}

	week, err := svc.dashboard.ExpenseBreakdown(ctx, "7days")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, week.Total)
	require.Len(t, week.ByType, 2)
	assert.Equal(t, 70.0, week.ByType[1].Percentage)

	all, err := svc.dashboard.ExpenseBreakdown(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, PeriodAll, all.Period)
	assert.Equal(t, 1999.0, all.Total)

	top, err := svc.dashboard.TopClients(ctx, "", 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 1000.0, top[0].PaidAmount)
	assert.Equal(t, 1, top[0].TotalProjects)
}

func TestReminderService_Due(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	svc.reminders.now = func() time.Time { return now }

	_, err := svc.vehicles.Create(ctx, &domain.CreateVehicleRequest{
		Name:               "Jeep",
		Type:               "car",
		RegistrationNumber: "MH12AB0001",
		InsuranceExpiry:    date(2024, 9, 11),
		PollutionExpiry:    date(2024, 8, 25),
		ServiceDueDate:     date(2025, 1, 1),
	})
	require.NoError(t, err)

	_, err = svc.instruments.Create(ctx, &domain.CreateInstrumentRequest{
		Name:           "Old Level",
		Type:           "Level",
		SerialNumber:   "LV-1",
		LastServicedOn: date(2023, 1, 15),
	})
	require.NoError(t, err)
	_, err = svc.instruments.Create(ctx, &domain.CreateInstrumentRequest{
		Name:           "New Level",
		Type:           "Level",
		SerialNumber:   "LV-2",
		LastServicedOn: date(2024, 6, 1),
	})
	require.NoError(t, err)

	_, err = svc.enquiries.Create(ctx, &domain.CreateEnquiryRequest{Subject: "Call back", Message: "Follow up", FollowUpDate: date(2024, 9, 5)})
	require.NoError(t, err)
	_, err = svc.enquiries.Create(ctx, &domain.CreateEnquiryRequest{Subject: "Done", Message: "Closed", Status: "closed", FollowUpDate: date(2024, 9, 5)})
	require.NoError(t, err)

	due, err := svc.reminders.Due(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultReminderDays, due.WindowDays)

	require.Len(t, due.Vehicles, 2)
	assert.Equal(t, ReminderPollution, due.Vehicles[0].Kind)
	assert.Equal(t, -7, due.Vehicles[0].DaysLeft)
	assert.Equal(t, ReminderInsurance, due.Vehicles[1].Kind)
	assert.Equal(t, 10, due.Vehicles[1].DaysLeft)

	require.Len(t, due.Instruments, 1)
	assert.Equal(t, "LV-1", due.Instruments[0].SerialNumber)

	require.Len(t, due.Enquiries, 1)
	assert.Equal(t, "Call back", due.Enquiries[0].Subject)

	wide, err := svc.reminders.Due(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, wide.WindowDays)
	require.Len(t, wide.Vehicles, 3)
	assert.Equal(t, ReminderServiceDue, wide.Vehicles[2].Kind)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), wide.Vehicles[2].DueDate.UTC())
}
