package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
)

// CrewRepository handles crew data access within the caller's partition
type CrewRepository struct {
	store ownedStore[domain.Crew]
}

// NewCrewRepository creates a new crew repository instance
func NewCrewRepository(db *gorm.DB) *CrewRepository {
	return &CrewRepository{store: newOwnedStore[domain.Crew](db, CrewSchema)}
}

func (r *CrewRepository) Create(ctx context.Context, crew *domain.Crew) error {
	return r.store.create(ctx, crew)
}

func (r *CrewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Crew, error) {
	return r.store.get(ctx, id)
}

// GetByUsername returns nil without error when the caller has no such crew
func (r *CrewRepository) GetByUsername(ctx context.Context, username string) (*domain.Crew, error) {
	var crew domain.Crew
	err := r.store.scoped(ctx).Where("username = ?", username).First(&crew).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &crew, nil
}

func (r *CrewRepository) Update(ctx context.Context, crew *domain.Crew) error {
	return r.store.update(ctx, crew.ID, crew)
}

func (r *CrewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

func (r *CrewRepository) List(ctx context.Context, q ListQuery) ([]domain.Crew, int64, error) {
	return r.store.list(ctx, q, nil)
}

func (r *CrewRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Crew, error) {
	return r.store.findByIDs(ctx, ids)
}

func (r *CrewRepository) MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.store.missingIDs(ctx, ids)
}
