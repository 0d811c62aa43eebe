package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteRepository_BillLinks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSiteRepository(db)
	admin := testutil.CreateTestAdmin(t, db, "owner")
	other := testutil.CreateTestAdmin(t, db, "other")
	ctx := testutil.AdminContext(admin)

	a := testutil.CreateTestSite(t, db, admin, "A", nil)
	b := testutil.CreateTestSite(t, db, admin, "B", nil)
	foreign := testutil.CreateTestSite(t, db, other, "Z", nil)
	billID := uuid.New()
	otherBill := uuid.New()

	n, err := repo.AttachToBill(ctx, []uuid.UUID{a.ID, b.ID, foreign.ID}, billID, domain.SiteStatusBillSubmitted)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Nil(t, testutil.Reload[domain.Site](t, db, foreign.ID).BillID)

	t.Run("empty id list is a no-op", func(t *testing.T) {
		n, err := repo.DetachFromBill(ctx, billID, []uuid.UUID{})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("only sites on that bill are released", func(t *testing.T) {
		n, err := repo.DetachFromBill(ctx, otherBill, []uuid.UUID{a.ID})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, domain.SiteStatusBillSubmitted, testutil.Reload[domain.Site](t, db, a.ID).Status)
	})

	t.Run("named sites", func(t *testing.T) {
		n, err := repo.DetachFromBill(ctx, billID, []uuid.UUID{a.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		site := testutil.Reload[domain.Site](t, db, a.ID)
		assert.Nil(t, site.BillID)
		assert.Equal(t, domain.SiteStatusDrawingCompleted, site.Status)
	})

	t.Run("nil releases all", func(t *testing.T) {
		n, err := repo.DetachFromBill(ctx, billID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Nil(t, testutil.Reload[domain.Site](t, db, b.ID).BillID)
	})
}

func TestSiteRepository_CountActiveByClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSiteRepository(db)
	admin := testutil.CreateTestAdmin(t, db, "owner")
	ctx := testutil.AdminContext(admin)
	client := testutil.CreateTestClient(t, db, admin, "Acme")

	testutil.CreateTestSite(t, db, admin, "Open", &client.ID)
	done := testutil.CreateTestSite(t, db, admin, "Done", &client.ID)
	_, err := repo.SetStatus(ctx, []uuid.UUID{done.ID}, domain.SiteStatusProjectCompleted)
	require.NoError(t, err)

	n, err := repo.CountActiveByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sites, err := repo.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, sites, 2)
}

func TestSiteRepository_JSONColumns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSiteRepository(db)
	admin := testutil.CreateTestAdmin(t, db, "owner")
	ctx := testutil.AdminContext(admin)

	crewIDs := []uuid.UUID{uuid.New(), uuid.New()}
	site := testutil.CreateTestSite(t, db, admin, "A", nil)
	site.CrewIDs = crewIDs
	require.NoError(t, repo.Update(ctx, site))

	found, err := repo.GetByID(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, crewIDs, found.CrewIDs)
}

func TestInstrumentRepository_CheckOutAndRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewInstrumentRepository(db)
	admin := testutil.CreateTestAdmin(t, db, "owner")
	other := testutil.CreateTestAdmin(t, db, "other")
	ctx := testutil.AdminContext(admin)

	free := testutil.CreateTestInstrument(t, db, admin, "Free", domain.InstrumentStatusAvailable)
	lost := testutil.CreateTestInstrument(t, db, admin, "Lost", domain.InstrumentStatusLost)
	foreign := testutil.CreateTestInstrument(t, db, other, "Theirs", domain.InstrumentStatusAvailable)

	moved, err := repo.CheckOut(ctx, []uuid.UUID{free.ID, lost.ID, foreign.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{free.ID}, moved)
	assert.Equal(t, domain.InstrumentStatusInUse, testutil.Reload[domain.Instrument](t, db, free.ID).Status)
	assert.Equal(t, domain.InstrumentStatusLost, testutil.Reload[domain.Instrument](t, db, lost.ID).Status)
	assert.Equal(t, domain.InstrumentStatusAvailable, testutil.Reload[domain.Instrument](t, db, foreign.ID).Status)

	n, err := repo.Release(ctx, []uuid.UUID{free.ID, foreign.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, domain.InstrumentStatusAvailable, testutil.Reload[domain.Instrument](t, db, free.ID).Status)
}
