package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billRequest(customerID uuid.UUID, number string, sites ...*domain.Site) *domain.CreateBillRequest {
	req := &domain.CreateBillRequest{
		CustomerID: customerID,
		BillNumber: number,
		BillDate:   date(2024, 9, 20),
	}
	for _, s := range sites {
		req.Items = append(req.Items, domain.BillItemRequest{
			SiteID:      s.ID,
			SiteName:    s.Name,
			Description: "Boundary survey",
			Rate:        10,
			Amount:      1000,
		})
	}
	return req
}

func TestBillService_CreateLinksSites(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	siteA := testutil.CreateTestSite(t, svc.db, admin, "Plot A", &client.ID)
	siteB := testutil.CreateTestSite(t, svc.db, admin, "Plot B", &client.ID)

	req := billRequest(client.ID, "908", siteA, siteB)
	req.IsGSTBill = true
	req.StateGST = 9
	req.CentralGST = 9

	bill, err := svc.bills.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, bill.Subtotal)
	assert.Equal(t, 360.0, bill.TotalTaxAmount)
	assert.Equal(t, 2360.0, bill.TotalAmount)
	assert.Equal(t, string(domain.PaymentStatusUnpaid), bill.PaymentStatus)
	assert.ElementsMatch(t, []uuid.UUID{siteA.ID, siteB.ID}, bill.SiteIDs)
	require.NotNil(t, bill.Customer)
	assert.Equal(t, "Acme", bill.Customer.Name)

	for _, id := range []uuid.UUID{siteA.ID, siteB.ID} {
		site := testutil.Reload[domain.Site](t, svc.db, id)
		require.NotNil(t, site.BillID)
		assert.Equal(t, bill.ID, *site.BillID)
		assert.Equal(t, domain.SiteStatusBillSubmitted, site.Status)
	}

	next, err := svc.bills.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "909", next.NextBillNumber)
}

func TestBillService_NextNumberFollowsLatest(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	site := testutil.CreateTestSite(t, svc.db, admin, "Plot A", &client.ID)

	next, err := svc.bills.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", next.NextBillNumber)

	for _, n := range []string{"9", "10"} {
		_, err := svc.bills.Create(ctx, billRequest(client.ID, n, site))
		require.NoError(t, err)
	}
	next, err = svc.bills.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "11", next.NextBillNumber)

	_, err = svc.bills.Create(ctx, billRequest(client.ID, "INV-7", site))
	require.NoError(t, err)
	next, err = svc.bills.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", next.NextBillNumber)
}

func TestBillService_CreateRejectsDuplicateNumber(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	site := testutil.CreateTestSite(t, svc.db, admin, "Plot A", &client.ID)

	_, err := svc.bills.Create(ctx, billRequest(client.ID, "1", site))
	require.NoError(t, err)

	_, err = svc.bills.Create(ctx, billRequest(client.ID, "1", site))
	assert.ErrorIs(t, err, ErrDuplicateBillNumber)
	assert.ErrorIs(t, err, ErrConflict)

	// Numbers are unique per admin only
	other := testutil.CreateTestAdmin(t, svc.db, "other")
	otherCtx := testutil.AdminContext(other)
	otherClient := testutil.CreateTestClient(t, svc.db, other, "Bolt")
	otherSite := testutil.CreateTestSite(t, svc.db, other, "Plot Z", &otherClient.ID)
	_, err = svc.bills.Create(otherCtx, billRequest(otherClient.ID, "1", otherSite))
	assert.NoError(t, err)
}

func TestBillService_CreateRejectsForeignReferences(t *testing.T) {
	svc := newTestServices(t)
	owner := testutil.CreateTestAdmin(t, svc.db, "owner")
	other := testutil.CreateTestAdmin(t, svc.db, "other")
	ctx := testutil.AdminContext(owner)

	client := testutil.CreateTestClient(t, svc.db, owner, "Acme")
	foreignSite := testutil.CreateTestSite(t, svc.db, other, "Not Mine", nil)

	_, err := svc.bills.Create(ctx, billRequest(client.ID, "1", foreignSite))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "items")

	site := testutil.Reload[domain.Site](t, svc.db, foreignSite.ID)
	assert.Nil(t, site.BillID)
	assert.Equal(t, domain.SiteStatusPending, site.Status)
}

func TestBillService_PaymentStatusDrivesSiteStatus(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	site := testutil.CreateTestSite(t, svc.db, admin, "Plot A", &client.ID)

	bill, err := svc.bills.Create(ctx, billRequest(client.ID, "10", site))
	require.NoError(t, err)

	updated, err := svc.bills.Update(ctx, bill.ID, &domain.UpdateBillRequest{PaymentStatus: strPtr("PAID")})
	require.NoError(t, err)
	assert.Equal(t, "PAID", updated.PaymentStatus)

	reloaded := testutil.Reload[domain.Site](t, svc.db, site.ID)
	assert.Equal(t, domain.SiteStatusBillPaid, reloaded.Status)
	require.NotNil(t, reloaded.BillID)
	assert.Equal(t, bill.ID, *reloaded.BillID)

	_, err = svc.bills.Update(ctx, bill.ID, &domain.UpdateBillRequest{PaymentStatus: strPtr("PARTIAL")})
	require.NoError(t, err)
	reloaded = testutil.Reload[domain.Site](t, svc.db, site.ID)
	assert.Equal(t, domain.SiteStatusBillSubmitted, reloaded.Status)
}

func TestBillService_ReplaceItemsRelinksSites(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	siteA := testutil.CreateTestSite(t, svc.db, admin, "Plot A", &client.ID)
	siteB := testutil.CreateTestSite(t, svc.db, admin, "Plot B", &client.ID)

	bill, err := svc.bills.Create(ctx, billRequest(client.ID, "10", siteA))
	require.NoError(t, err)

	items := []domain.BillItemRequest{{SiteID: siteB.ID, Amount: 4500}}
	updated, err := svc.bills.Update(ctx, bill.ID, &domain.UpdateBillRequest{Items: &items})
	require.NoError(t, err)
	assert.Equal(t, 4500.0, updated.TotalAmount)
	assert.Equal(t, []uuid.UUID{siteB.ID}, updated.SiteIDs)
	require.Len(t, updated.Items, 1)

	released := testutil.Reload[domain.Site](t, svc.db, siteA.ID)
	assert.Nil(t, released.BillID)
	assert.Equal(t, domain.SiteStatusDrawingCompleted, released.Status)

	linked := testutil.Reload[domain.Site](t, svc.db, siteB.ID)
	require.NotNil(t, linked.BillID)
	assert.Equal(t, bill.ID, *linked.BillID)
	assert.Equal(t, domain.SiteStatusBillSubmitted, linked.Status)

	fetched, err := svc.bills.GetByID(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, siteB.ID, fetched.Items[0].SiteID)
}

func TestBillService_DeleteReleasesSites(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	site := testutil.CreateTestSite(t, svc.db, admin, "Plot A", &client.ID)

	bill, err := svc.bills.Create(ctx, billRequest(client.ID, "10", site))
	require.NoError(t, err)

	require.NoError(t, svc.bills.Delete(ctx, bill.ID))

	reloaded := testutil.Reload[domain.Site](t, svc.db, site.ID)
	assert.Nil(t, reloaded.BillID)
	assert.Equal(t, domain.SiteStatusDrawingCompleted, reloaded.Status)

	_, err = svc.bills.GetByID(ctx, bill.ID)
	assert.ErrorIs(t, err, ErrBillNotFound)

	var items int64
	require.NoError(t, svc.db.Model(&domain.BillItem{}).Where("bill_id = ?", bill.ID).Count(&items).Error)
	assert.Zero(t, items)
}

func TestBillService_DeleteOtherAdminsBill(t *testing.T) {
	svc := newTestServices(t)
	owner := testutil.CreateTestAdmin(t, svc.db, "owner")
	intruder := testutil.CreateTestAdmin(t, svc.db, "intruder")
	client := testutil.CreateTestClient(t, svc.db, owner, "Acme")
	site := testutil.CreateTestSite(t, svc.db, owner, "Plot A", &client.ID)

	bill, err := svc.bills.Create(testutil.AdminContext(owner), billRequest(client.ID, "10", site))
	require.NoError(t, err)

	err = svc.bills.Delete(testutil.AdminContext(intruder), bill.ID)
	assert.ErrorIs(t, err, ErrBillNotFound)

	reloaded := testutil.Reload[domain.Site](t, svc.db, site.ID)
	require.NotNil(t, reloaded.BillID)
	assert.Equal(t, domain.SiteStatusBillSubmitted, reloaded.Status)
}

func TestSiteService_InstrumentLifecycle(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)

	free := testutil.CreateTestInstrument(t, svc.db, admin, "Total Station", domain.InstrumentStatusAvailable)
	broken := testutil.CreateTestInstrument(t, svc.db, admin, "GPS Rover", domain.InstrumentStatusRepair)
	spare := testutil.CreateTestInstrument(t, svc.db, admin, "Level", domain.InstrumentStatusAvailable)

	site, err := svc.sites.Create(ctx, &domain.CreateSiteRequest{
		Name:          "Riverside",
		Address:       "1 River Road",
		City:          "Nashik",
		State:         "MH",
		StartDate:     date(2024, 5, 1),
		InstrumentIDs: []uuid.UUID{free.ID, broken.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.SiteStatusPending), site.Status)

	t.Run("create checks out available instruments only", func(t *testing.T) {
		assert.Equal(t, domain.InstrumentStatusInUse, testutil.Reload[domain.Instrument](t, svc.db, free.ID).Status)
		assert.Equal(t, domain.InstrumentStatusRepair, testutil.Reload[domain.Instrument](t, svc.db, broken.ID).Status)
	})

	t.Run("update swaps instruments", func(t *testing.T) {
		ids := []uuid.UUID{spare.ID}
		_, err := svc.sites.Update(ctx, site.ID, &domain.UpdateSiteRequest{InstrumentIDs: &ids})
		require.NoError(t, err)
		assert.Equal(t, domain.InstrumentStatusAvailable, testutil.Reload[domain.Instrument](t, svc.db, free.ID).Status)
		assert.Equal(t, domain.InstrumentStatusAvailable, testutil.Reload[domain.Instrument](t, svc.db, broken.ID).Status)
		assert.Equal(t, domain.InstrumentStatusInUse, testutil.Reload[domain.Instrument](t, svc.db, spare.ID).Status)
	})

	t.Run("update without instrument list leaves them alone", func(t *testing.T) {
		_, err := svc.sites.Update(ctx, site.ID, &domain.UpdateSiteRequest{City: strPtr("Pune")})
		require.NoError(t, err)
		assert.Equal(t, domain.InstrumentStatusInUse, testutil.Reload[domain.Instrument](t, svc.db, spare.ID).Status)
	})

	t.Run("delete releases instruments", func(t *testing.T) {
		require.NoError(t, svc.sites.Delete(ctx, site.ID))
		assert.Equal(t, domain.InstrumentStatusAvailable, testutil.Reload[domain.Instrument](t, svc.db, spare.ID).Status)
		_, err := svc.sites.GetByID(ctx, site.ID, "")
		assert.ErrorIs(t, err, ErrSiteNotFound)
	})
}

func TestSiteService_RejectsUnknownReferences(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	other := testutil.CreateTestAdmin(t, svc.db, "other")
	ctx := testutil.AdminContext(admin)
	foreign := testutil.CreateTestInstrument(t, svc.db, other, "Theirs", domain.InstrumentStatusAvailable)
	missingClient := uuid.New()

	_, err := svc.sites.Create(ctx, &domain.CreateSiteRequest{
		Name:          "Hilltop",
		Address:       "2 Hill Road",
		City:          "Satara",
		State:         "MH",
		StartDate:     date(2024, 5, 1),
		ClientID:      &missingClient,
		InstrumentIDs: []uuid.UUID{foreign.ID},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "clientId")
	assert.Contains(t, verr.Fields, "instrumentIds")

	assert.Equal(t, domain.InstrumentStatusAvailable, testutil.Reload[domain.Instrument](t, svc.db, foreign.ID).Status)
}

func TestSiteService_GetByIDExpands(t *testing.T) {
	svc := newTestServices(t)
	admin := testutil.CreateTestAdmin(t, svc.db, "owner")
	ctx := testutil.AdminContext(admin)
	client := testutil.CreateTestClient(t, svc.db, admin, "Acme")
	instrument := testutil.CreateTestInstrument(t, svc.db, admin, "Total Station", domain.InstrumentStatusAvailable)

	created, err := svc.sites.Create(ctx, &domain.CreateSiteRequest{
		Name:          "Lakeside",
		Address:       "3 Lake Road",
		City:          "Pune",
		State:         "MH",
		StartDate:     date(2024, 6, 1),
		ClientID:      &client.ID,
		InstrumentIDs: []uuid.UUID{instrument.ID},
	})
	require.NoError(t, err)

	plain, err := svc.sites.GetByID(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Nil(t, plain.Client)
	assert.Empty(t, plain.Instruments)

	expanded, err := svc.sites.GetByID(ctx, created.ID, "client,instruments,unknown")
	require.NoError(t, err)
	require.NotNil(t, expanded.Client)
	assert.Equal(t, "Acme", expanded.Client.Name)
	require.Len(t, expanded.Instruments, 1)
	assert.Equal(t, string(domain.InstrumentStatusInUse), expanded.Instruments[0].Status)
}
