package service

import (
	"io"
	"testing"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/storage"
	"github.com/hiland-surveyors/survey-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExportService_BillsWorkbook(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	siteA := testutil.CreateTestSite(t, svc.db, admin, "A", &client.ID)
	siteB := testutil.CreateTestSite(t, svc.db, admin, "B", &client.ID)

	_, err := svc.bills.Create(ctx, billRequest(client.ID, "101", siteA))
	require.NoError(t, err)
	_, err = svc.bills.Create(ctx, billRequest(client.ID, "102", siteB))
	require.NoError(t, err)

	buf, err := svc.exports.BillsWorkbook(ctx, repository.ListQuery{SortBy: "billNumber", SortOrder: repository.SortOrderAsc})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Bills"}, f.GetSheetList())
	rows, err := f.GetRows("Bills")
	require.NoError(t, err)
	assert.Equal(t, "Bill Number", rows[3][0])
	assert.Equal(t, "101", rows[4][0])
	assert.Equal(t, "Acme", rows[4][2])
	assert.Equal(t, "102", rows[5][0])
}

func TestExportService_ExpensesWorkbookScoped(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	other := testutil.CreateTestAdmin(t, svc.db, "other")
	ctx := testutil.AdminContext(admin)

	amount := 250.0
	_, err := svc.expenses.Create(ctx, &domain.CreateExpenseRequest{Type: "FOOD", Amount: &amount, Description: "Lunch", ExpenseDate: date(2024, 9, 1)})
	require.NoError(t, err)
	_, err = svc.expenses.Create(testutil.AdminContext(other), &domain.CreateExpenseRequest{Type: "FUEL", Amount: &amount, Description: "Not mine", ExpenseDate: date(2024, 9, 1)})
	require.NoError(t, err)

	buf, err := svc.exports.ExpensesWorkbook(ctx, repository.ListQuery{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	assert.Equal(t, "FOOD", rows[4][1])
	assert.Equal(t, "Lunch", rows[4][5])
	for _, row := range rows {
		for _, cell := range row {
			assert.NotEqual(t, "Not mine", cell)
		}
	}
}

func TestPreviousMonth(t *testing.T) {
	start, end := PreviousMonth(time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)

	start, _ = PreviousMonth(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestReportArchiveService_ArchiveMonth(t *testing.T) {
	svc := newTestServices(t)
	first := testutil.CreateTestAdmin(t, svc.db, "first")
	second := testutil.CreateTestAdmin(t, svc.db, "second")

	client := testutil.CreateTestClient(t, svc.db, first, "Acme")
	site := testutil.CreateTestSite(t, svc.db, first, "A", &client.ID)
	req := billRequest(client.ID, "1", site)
	req.BillDate = date(2024, 8, 14)
	_, err := svc.bills.Create(testutil.AdminContext(first), req)
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	archive := NewReportArchiveService(repository.NewAdminRepository(svc.db), svc.exports, store, zap.NewNop())

	start, end := PreviousMonth(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
	result, err := archive.ArchiveMonth(t.Context(), start, end)
	require.NoError(t, err)
	assert.Equal(t, "2024-08", result.Month)
	assert.Equal(t, 2, result.Admins)
	assert.Equal(t, 4, result.Written)
	assert.Zero(t, result.Failures)

	for _, admin := range []*domain.Admin{first, second} {
		for _, name := range []string{"bills", "expenses"} {
			rc, err := store.Get(t.Context(), ReportKey(admin.ID, start, name))
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			rc.Close()
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		}
	}

	rc, err := store.Get(t.Context(), ReportKey(first.ID, start, "bills"))
	require.NoError(t, err)
	defer rc.Close()
	f, err := excelize.OpenReader(rc)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Bills")
	require.NoError(t, err)
	assert.Equal(t, "1", rows[4][0])
}
