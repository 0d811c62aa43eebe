package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
)

// ExpenseRepository handles expense data access within the caller's partition
type ExpenseRepository struct {
	store ownedStore[domain.Expense]
}

// NewExpenseRepository creates a new expense repository instance
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{store: newOwnedStore[domain.Expense](db, ExpenseSchema)}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	return r.store.create(ctx, expense)
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	return r.store.get(ctx, id)
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	return r.store.update(ctx, expense.ID, expense)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

func (r *ExpenseRepository) List(ctx context.Context, q ListQuery) ([]domain.Expense, int64, error) {
	return r.store.list(ctx, q, nil)
}

// FindAll returns every matching expense, up to limit rows
func (r *ExpenseRepository) FindAll(ctx context.Context, q ListQuery, limit int) ([]domain.Expense, error) {
	return r.store.findAll(ctx, q, nil, limit)
}

// ListSince returns expenses dated at or after since, or every expense when since is nil
func (r *ExpenseRepository) ListSince(ctx context.Context, since *time.Time) ([]domain.Expense, error) {
	query := r.store.scoped(ctx)
	if since != nil {
		query = query.Where("expense_date >= ?", *since)
	}
	var expenses []domain.Expense
	err := query.Order("expense_date ASC").Find(&expenses).Error
	return expenses, err
}
