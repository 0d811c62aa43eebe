package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestScopeToOwner_Isolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewClientRepository(db)
	owner := testutil.CreateTestAdmin(t, db, "owner")
	other := testutil.CreateTestAdmin(t, db, "other")
	ownerCtx := testutil.AdminContext(owner)
	otherCtx := testutil.AdminContext(other)

	client := &domain.Client{Name: "Acme"}
	require.NoError(t, repo.Create(ownerCtx, client))
	assert.Equal(t, owner.ID, client.AdminID)

	_, err := repo.GetByID(otherCtx, client.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	client.Name = "Hijacked"
	err = repo.Update(otherCtx, client)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(otherCtx, client.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.GetByID(ownerCtx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)

	missing, err := repo.MissingIDs(otherCtx, []uuid.UUID{client.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{client.ID}, missing)
}

func TestScopeToOwner_MissingOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewClientRepository(db)
	owner := testutil.CreateTestAdmin(t, db, "owner")
	testutil.CreateTestClient(t, db, owner, "Acme")

	_, _, err := repo.List(context.Background(), ListQuery{})
	assert.ErrorIs(t, err, ErrMissingOwner)

	err = repo.Create(context.Background(), &domain.Client{Name: "Orphan"})
	assert.ErrorIs(t, err, ErrMissingOwner)

	var count int64
	require.NoError(t, db.Model(&domain.Client{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestList_PaginationAndSort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewClientRepository(db)
	admin := testutil.CreateTestAdmin(t, db, "owner")
	ctx := testutil.AdminContext(admin)

	for i := 1; i <= 25; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Client{Name: fmt.Sprintf("Client %02d", i)}))
	}

	page, total, err := repo.List(ctx, ListQuery{Page: 3, Limit: 10, SortBy: "name", SortOrder: SortOrderAsc})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, page, 5)
	assert.Equal(t, "Client 21", page[0].Name)

	desc, _, err := repo.List(ctx, ListQuery{Limit: 1, SortBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, "Client 25", desc[0].Name)

	// An unknown sort key falls back to the default rather than reaching SQL
	_, _, err = repo.List(ctx, ListQuery{SortBy: "name; DROP TABLE clients"})
	require.NoError(t, err)

	capped, _, err := repo.List(ctx, ListQuery{Limit: 10000})
	require.NoError(t, err)
	assert.Len(t, capped, 25)
}

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{Page: -1, Limit: 5000}
	q.Normalize()
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, MaxPageSize, q.Limit)
	assert.Equal(t, SortOrderDesc, q.SortOrder)

	q = ListQuery{Page: 2, Limit: 0}
	q.Normalize()
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 10, q.Offset())
}

func TestListQuery_DateWindow(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	q := ListQuery{StartDate: &start, Year: 2023}
	from, to := q.DateWindow()
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), *to)

	q = ListQuery{StartDate: &start}
	from, to = q.DateWindow()
	assert.Equal(t, start, *from)
	assert.Nil(t, to)
}

func TestList_SearchEscapesWildcards(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewClientRepository(db)
	admin := testutil.CreateTestAdmin(t, db, "owner")
	ctx := testutil.AdminContext(admin)

	require.NoError(t, repo.Create(ctx, &domain.Client{Name: "Patil & Sons", Email: "patil@example.com"}))
	require.NoError(t, repo.Create(ctx, &domain.Client{Name: "100% Surveys"}))
	require.NoError(t, repo.Create(ctx, &domain.Client{Name: "Kulkarni", Company: "PATIL holdings"}))

	found, total, err := repo.List(ctx, ListQuery{Search: "patil"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, found, 2)

	found, _, err = repo.List(ctx, ListQuery{Search: "%"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% Surveys", found[0].Name)
}

func TestList_FiltersAndDates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewExpenseRepository(db)
	admin := testutil.CreateTestAdmin(t, db, "owner")
	ctx := testutil.AdminContext(admin)

	for _, e := range []domain.Expense{
		{Type: domain.ExpenseTypeFuel, Amount: 10, ExpenseDate: time.Date(2023, 12, 31, 18, 0, 0, 0, time.UTC)},
		{Type: domain.ExpenseTypeFuel, Amount: 20, ExpenseDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Type: domain.ExpenseTypeFood, Amount: 30, ExpenseDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	} {
		e := e
		require.NoError(t, repo.Create(ctx, &e))
	}

	fuel, total, err := repo.List(ctx, ListQuery{Filters: map[string]interface{}{"type": "FUEL"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, fuel, 2)

	_, total, err = repo.List(ctx, ListQuery{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.List(ctx, ListQuery{Year: 2023, Filters: map[string]interface{}{"type": "FUEL"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// Filters the schema does not declare are ignored
	_, total, err = repo.List(ctx, ListQuery{Filters: map[string]interface{}{"amount": 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestSchemas_Validate(t *testing.T) {
	require.NoError(t, ValidateSchemas())

	bad := &EntitySchema{Name: "bad", SortColumns: map[string]string{"name": "name"}, DefaultSort: "missing"}
	assert.Error(t, bad.Validate())

	injected := &EntitySchema{
		Name:          "bad",
		SortColumns:   map[string]string{"name": "name"},
		DefaultSort:   "name",
		SearchColumns: []string{"name) OR 1=1 --"},
	}
	assert.Error(t, injected.Validate())
}

func TestEntitySchema_ParseFilter(t *testing.T) {
	v, err := CrewSchema.ParseFilter("isActive", "true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = CrewSchema.ParseFilter("isActive", "maybe")
	assert.Error(t, err)

	id := uuid.New()
	v, err = SiteSchema.ParseFilter("clientId", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, v)

	_, err = SiteSchema.ParseFilter("nope", "x")
	assert.Error(t, err)
}

func TestEntitySchema_Expansions(t *testing.T) {
	got := SiteSchema.Expansions("client, crews,bogus,")
	assert.Equal(t, map[string]bool{"client": true, "crews": true}, got)
	assert.Empty(t, ClientSchema.Expansions("client"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%abc%`, likePattern("ABC"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}
