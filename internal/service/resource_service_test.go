package service

import (
	"errors"
	"testing"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrewService_UsernameScopedPerAdmin(t *testing.T) {
	svc := newTestServices(t)
	first := testutil.AdminContext(testutil.CreateTestAdmin(t, svc.db, "first"))
	second := testutil.AdminContext(testutil.CreateTestAdmin(t, svc.db, "second"))

	req := &domain.CreateCrewRequest{Name: "Ravi", Username: "ravi", Password: "secret1"}
	crew, err := svc.crews.Create(first, req)
	require.NoError(t, err)
	assert.True(t, crew.IsActive)

	_, err = svc.crews.Create(first, req)
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = svc.crews.Create(second, req)
	assert.NoError(t, err)

	inactive := false
	updated, err := svc.crews.Update(first, crew.ID, &domain.UpdateCrewRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	page, err := svc.crews.List(first, repository.ListQuery{Filters: map[string]interface{}{"isActive": false}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)
}

func TestVehicleService_Registration(t *testing.T) {
	svc := newTestServices(t)
	first := testutil.AdminContext(testutil.CreateTestAdmin(t, svc.db, "first"))
	second := testutil.AdminContext(testutil.CreateTestAdmin(t, svc.db, "second"))

	v, err := svc.vehicles.Create(first, &domain.CreateVehicleRequest{
		Name:               "Survey Jeep",
		Type:               "car",
		RegistrationNumber: " mh12ab1234 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "MH12AB1234", v.RegistrationNumber)
	assert.Equal(t, string(domain.VehicleStatusActive), v.Status)

	// Registration numbers are unique across all admins
	_, err = svc.vehicles.Create(second, &domain.CreateVehicleRequest{
		Name:               "Copy",
		Type:               "van",
		RegistrationNumber: "MH12AB1234",
	})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestVehicleService_RejectsFutureYear(t *testing.T) {
	svc := newTestServices(t)
	ctx := testutil.AdminContext(testutil.CreateTestAdmin(t, svc.db, "owner"))
	svc.vehicles.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	ok := 2025
	_, err := svc.vehicles.Create(ctx, &domain.CreateVehicleRequest{Name: "Next", Type: "truck", RegistrationNumber: "A1", Year: &ok})
	require.NoError(t, err)

	tooNew := 2026
	_, err = svc.vehicles.Create(ctx, &domain.CreateVehicleRequest{Name: "Later", Type: "truck", RegistrationNumber: "A2", Year: &tooNew})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "year")
}

func TestInstrumentService_SerialNumberUnique(t *testing.T) {
	svc := newTestServices(t)
	ctx := testutil.AdminContext(testutil.CreateTestAdmin(t, svc.db, "owner"))

	req := &domain.CreateInstrumentRequest{Name: "Total Station", Type: "TS", SerialNumber: "TS-001"}
	created, err := svc.instruments.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.InstrumentStatusAvailable), created.Status)

	_, err = svc.instruments.Create(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateSerialNumber)

	updated, err := svc.instruments.Update(ctx, created.ID, &domain.UpdateInstrumentRequest{Status: strPtr("repair")})
	require.NoError(t, err)
	assert.Equal(t, "repair", updated.Status)
}

func TestExpenseService_References(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	other := testutil.CreateTestAdmin(t, svc.db, "other")
	ctx := testutil.AdminContext(admin)
	site := testutil.CreateTestSite(t, svc.db, admin, "Plot A", nil)
	foreign := testutil.CreateTestSite(t, svc.db, other, "Plot Z", nil)

	amount := 1500.0
	expense, err := svc.expenses.Create(ctx, &domain.CreateExpenseRequest{
		Type:        "FUEL",
		SiteID:      &site.ID,
		Amount:      &amount,
		ExpenseDate: date(2024, 9, 10),
	})
	require.NoError(t, err)
	require.NotNil(t, expense.Site)
	assert.Equal(t, "Plot A", expense.Site.Name)

	_, err = svc.expenses.Create(ctx, &domain.CreateExpenseRequest{
		Type:        "FOOD",
		SiteID:      &foreign.ID,
		Amount:      &amount,
		ExpenseDate: date(2024, 9, 10),
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "siteId")
}

func TestEnquiryService_Lifecycle(t *testing.T) {
	svc := newTestServices(t)
	ctx := testutil.AdminContext(testutil.CreateTestAdmin(t, svc.db, "owner"))

	created, err := svc.enquiries.Create(ctx, &domain.CreateEnquiryRequest{
		Subject:      "Contour survey quote",
		Message:      "Need a contour survey for 5 acres",
		FollowUpDate: date(2024, 10, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.EnquiryStatusNew), created.Status)

	updated, err := svc.enquiries.Update(ctx, created.ID, &domain.UpdateEnquiryRequest{
		Status:        strPtr("completed"),
		ResponseNotes: strPtr("Quote sent"),
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "Quote sent", updated.ResponseNotes)

	require.NoError(t, svc.enquiries.Delete(ctx, created.ID))
	_, err = svc.enquiries.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrEnquiryNotFound)
}

func TestServices_RequireOwner(t *testing.T) {
	svc := newTestServices(t)
	_, err := svc.clients.List(t.Context(), repository.ListQuery{})
	assert.ErrorIs(t, err, repository.ErrMissingOwner)
}
