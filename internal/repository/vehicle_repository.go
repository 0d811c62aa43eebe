package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
)

// VehicleRepository handles vehicle data access within the caller's partition
type VehicleRepository struct {
	store ownedStore[domain.Vehicle]
}

// NewVehicleRepository creates a new vehicle repository instance
func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{store: newOwnedStore[domain.Vehicle](db, VehicleSchema)}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.store.create(ctx, vehicle)
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return r.store.get(ctx, id)
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.store.update(ctx, vehicle.ID, vehicle)
}

func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

func (r *VehicleRepository) List(ctx context.Context, q ListQuery) ([]domain.Vehicle, int64, error) {
	return r.store.list(ctx, q, nil)
}

func (r *VehicleRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Vehicle, error) {
	return r.store.findByIDs(ctx, ids)
}

func (r *VehicleRepository) MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.store.missingIDs(ctx, ids)
}

// ComplianceDue returns vehicles with an insurance, pollution or service
// date on or before until
func (r *VehicleRepository) ComplianceDue(ctx context.Context, until time.Time) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := r.store.scoped(ctx).
		Where("status <> ?", domain.VehicleStatusInactive).
		Where("(insurance_expiry <= ? OR pollution_expiry <= ? OR service_due_date <= ?)", until, until, until).
		Order("name ASC").
		Find(&vehicles).Error
	return vehicles, err
}
