package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillRepository handles bills and their line items within the caller's partition
type BillRepository struct {
	store ownedStore[domain.Bill]
}

// NewBillRepository creates a new bill repository instance
func NewBillRepository(db *gorm.DB) *BillRepository {
	return &BillRepository{store: newOwnedStore[domain.Bill](db, BillSchema)}
}

// WithTx returns a repository bound to tx
func (r *BillRepository) WithTx(tx *gorm.DB) *BillRepository {
	return &BillRepository{store: r.store.withTx(tx)}
}

// Create inserts the bill together with its items
func (r *BillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	for i := range bill.Items {
		bill.Items[i].Position = i
	}
	return r.store.create(ctx, bill)
}

// GetByID retrieves a bill with its items in order
func (r *BillRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	var bill domain.Bill
	err := r.store.scoped(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// Update writes the bill's own columns. Items are written by ReplaceItems.
func (r *BillRepository) Update(ctx context.Context, bill *domain.Bill) error {
	return r.store.update(ctx, bill.ID, bill)
}

// ReplaceItems swaps the bill's items for items. The bill must already be
// known to belong to the caller.
func (r *BillRepository) ReplaceItems(ctx context.Context, billID uuid.UUID, items []domain.BillItem) error {
	db := r.store.db.WithContext(ctx)
	if err := db.Where("bill_id = ?", billID).Delete(&domain.BillItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].BillID = billID
		items[i].Position = i
	}
	return db.Omit(clause.Associations).Create(&items).Error
}

// Delete removes the bill and its items
func (r *BillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.store.get(ctx, id); err != nil {
		return err
	}
	if err := r.store.db.WithContext(ctx).Where("bill_id = ?", id).Delete(&domain.BillItem{}).Error; err != nil {
		return err
	}
	return r.store.delete(ctx, id)
}

// List returns a page of bills. Search also matches the customer's name.
func (r *BillRepository) List(ctx context.Context, q ListQuery) ([]domain.Bill, int64, error) {
	bills, total, err := r.store.list(ctx, q, r.customerNameSearch)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(ctx, bills); err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

// FindAll returns every matching bill with items, up to limit rows
func (r *BillRepository) FindAll(ctx context.Context, q ListQuery, limit int) ([]domain.Bill, error) {
	bills, err := r.store.findAll(ctx, q, r.customerNameSearch, limit)
	if err != nil {
		return nil, err
	}
	return bills, r.loadItems(ctx, bills)
}

func (r *BillRepository) customerNameSearch(ctx context.Context, pattern string) (string, []interface{}) {
	clients := ScopeToOwner(ctx, r.store.db).
		Model(&domain.Client{}).
		Select("id").
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	return "customer_id IN (?)", []interface{}{clients}
}

func (r *BillRepository) loadItems(ctx context.Context, bills []domain.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(bills))
	index := make(map[uuid.UUID]int, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
		index[b.ID] = i
	}
	var items []domain.BillItem
	err := r.store.db.WithContext(ctx).
		Where("bill_id IN ?", ids).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return err
	}
	for _, item := range items {
		i := index[item.BillID]
		bills[i].Items = append(bills[i].Items, item)
	}
	return nil
}

// NumberTaken reports whether the caller already has a bill numbered
// number, ignoring the bill excludeID
func (r *BillRepository) NumberTaken(ctx context.Context, number string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.store.scoped(ctx).Where("bill_number = ?", number)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestNumber returns the caller's top bill number in descending natural
// order (longer numbers first, then lexical), or "" when there are no bills
func (r *BillRepository) LatestNumber(ctx context.Context) (string, error) {
	var numbers []string
	err := r.store.scoped(ctx).
		Order("LENGTH(bill_number) DESC").
		Order("bill_number DESC").
		Limit(1).
		Pluck("bill_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

// ListByCustomer returns the caller's bills for one client
func (r *BillRepository) ListByCustomer(ctx context.Context, clientID uuid.UUID) ([]domain.Bill, error) {
	var bills []domain.Bill
	err := r.store.scoped(ctx).Where("customer_id = ?", clientID).Find(&bills).Error
	return bills, err
}

// CountByCustomer counts the caller's bills for one client
func (r *BillRepository) CountByCustomer(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.store.scoped(ctx).Where("customer_id = ?", clientID).Count(&count).Error
	return count, err
}

// ListSince returns bills dated at or after since, or every bill when since is nil
func (r *BillRepository) ListSince(ctx context.Context, since *time.Time) ([]domain.Bill, error) {
	query := r.store.scoped(ctx)
	if since != nil {
		query = query.Where("bill_date >= ?", *since)
	}
	var bills []domain.Bill
	err := query.Order("bill_date ASC").Find(&bills).Error
	return bills, err
}

// GetByIDs returns the caller's bills among ids, without items
func (r *BillRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Bill, error) {
	return r.store.findByIDs(ctx, ids)
}

func (r *BillRepository) MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.store.missingIDs(ctx, ids)
}

// ListAll returns every bill of the caller without items
func (r *BillRepository) ListAll(ctx context.Context) ([]domain.Bill, error) {
	return r.store.all(ctx)
}
