package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
)

// InstrumentRepository handles instrument data access within the caller's partition
type InstrumentRepository struct {
	store ownedStore[domain.Instrument]
}

// NewInstrumentRepository creates a new instrument repository instance
func NewInstrumentRepository(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{store: newOwnedStore[domain.Instrument](db, InstrumentSchema)}
}

// WithTx returns a repository bound to tx
func (r *InstrumentRepository) WithTx(tx *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{store: r.store.withTx(tx)}
}

func (r *InstrumentRepository) Create(ctx context.Context, instrument *domain.Instrument) error {
	return r.store.create(ctx, instrument)
}

func (r *InstrumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Instrument, error) {
	return r.store.get(ctx, id)
}

func (r *InstrumentRepository) Update(ctx context.Context, instrument *domain.Instrument) error {
	return r.store.update(ctx, instrument.ID, instrument)
}

func (r *InstrumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

func (r *InstrumentRepository) List(ctx context.Context, q ListQuery) ([]domain.Instrument, int64, error) {
	return r.store.list(ctx, q, nil)
}

func (r *InstrumentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Instrument, error) {
	return r.store.findByIDs(ctx, ids)
}

func (r *InstrumentRepository) MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.store.missingIDs(ctx, ids)
}

// CheckOut moves the available instruments among ids to in-use. It returns
// the ids it moved; instruments in any other state are left untouched.
func (r *InstrumentRepository) CheckOut(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var available []uuid.UUID
	err := r.store.scoped(ctx).
		Where("id IN ? AND status = ?", ids, domain.InstrumentStatusAvailable).
		Pluck("id", &available).Error
	if err != nil || len(available) == 0 {
		return nil, err
	}
	err = r.store.scoped(ctx).
		Where("id IN ? AND status = ?", available, domain.InstrumentStatusAvailable).
		Update("status", domain.InstrumentStatusInUse).Error
	if err != nil {
		return nil, err
	}
	return available, nil
}

// Release marks every instrument in ids available, whatever its state
func (r *InstrumentRepository) Release(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.store.scoped(ctx).
		Where("id IN ?", ids).
		Update("status", domain.InstrumentStatusAvailable)
	return result.RowsAffected, result.Error
}

// ServiceOverdue returns active instruments last serviced before cutoff
func (r *InstrumentRepository) ServiceOverdue(ctx context.Context, cutoff time.Time) ([]domain.Instrument, error) {
	var instruments []domain.Instrument
	err := r.store.scoped(ctx).
		Where("status <> ?", domain.InstrumentStatusLost).
		Where("last_serviced_on IS NOT NULL AND last_serviced_on < ?", cutoff).
		Order("last_serviced_on ASC").
		Find(&instruments).Error
	return instruments, err
}
