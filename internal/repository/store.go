package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ownedStore implements the CRUD every admin-partitioned repository shares.
// All access goes through ScopeToOwner.
type ownedStore[T any] struct {
	db     *gorm.DB
	schema *EntitySchema
}

func newOwnedStore[T any](db *gorm.DB, schema *EntitySchema) ownedStore[T] {
	return ownedStore[T]{db: db, schema: schema}
}

func (s ownedStore[T]) withTx(tx *gorm.DB) ownedStore[T] {
	return ownedStore[T]{db: tx, schema: s.schema}
}

func (s ownedStore[T]) scoped(ctx context.Context) *gorm.DB {
	return ScopeToOwner(ctx, s.db).Model(new(T))
}

func (s ownedStore[T]) create(ctx context.Context, m *T) error {
	owned, ok := any(m).(domain.Owned)
	if !ok {
		return fmt.Errorf("%T is not an owned model", m)
	}
	if err := stampOwner(ctx, owned); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(m).Error
}

func (s ownedStore[T]) get(ctx context.Context, id uuid.UUID) (*T, error) {
	var m T
	if err := s.scoped(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// update writes every column of m except identity and ownership. A row
// outside the caller's partition is reported as gorm.ErrRecordNotFound.
func (s ownedStore[T]) update(ctx context.Context, id uuid.UUID, m *T) error {
	result := ScopeToOwner(ctx, s.db).
		Model(m).
		Where("id = ?", id).
		Select("*").
		Omit("id", "admin_id", "created_at", clause.Associations).
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s ownedStore[T]) delete(ctx context.Context, id uuid.UUID) error {
	result := ScopeToOwner(ctx, s.db).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s ownedStore[T]) list(ctx context.Context, q ListQuery, ext searchExtension) ([]T, int64, error) {
	q.Normalize()
	query := applyFilters(ctx, s.scoped(ctx), s.schema, q, ext)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]T, 0, q.Limit)
	err := query.
		Order(s.schema.orderClause(q.SortBy, q.SortOrder)).
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// findAll returns every match without pagination, capped at limit rows
func (s ownedStore[T]) findAll(ctx context.Context, q ListQuery, ext searchExtension, limit int) ([]T, error) {
	q.Normalize()
	items := make([]T, 0)
	err := applyFilters(ctx, s.scoped(ctx), s.schema, q, ext).
		Order(s.schema.orderClause(q.SortBy, q.SortOrder)).
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (s ownedStore[T]) findByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error) {
	items := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	err := s.scoped(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// missingIDs returns the ids in ids that do not exist in the caller's partition
func (s ownedStore[T]) missingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	if err := s.scoped(ctx).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	have := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (s ownedStore[T]) all(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	err := s.scoped(ctx).Order("created_at ASC, id ASC").Find(&items).Error
	return items, err
}
