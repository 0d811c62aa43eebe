package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
)

// ClientRepository handles client data access within the caller's partition
type ClientRepository struct {
	store ownedStore[domain.Client]
}

// NewClientRepository creates a new client repository instance
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{store: newOwnedStore[domain.Client](db, ClientSchema)}
}

// WithTx returns a repository bound to tx
func (r *ClientRepository) WithTx(tx *gorm.DB) *ClientRepository {
	return &ClientRepository{store: r.store.withTx(tx)}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.store.create(ctx, client)
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return r.store.get(ctx, id)
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return r.store.update(ctx, client.ID, client)
}

func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

// List returns a page of clients and the total match count
func (r *ClientRepository) List(ctx context.Context, q ListQuery) ([]domain.Client, int64, error) {
	return r.store.list(ctx, q, nil)
}

// ListAll returns every client of the caller
func (r *ClientRepository) ListAll(ctx context.Context) ([]domain.Client, error) {
	return r.store.all(ctx)
}

func (r *ClientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Client, error) {
	return r.store.findByIDs(ctx, ids)
}

// MissingIDs returns the ids that are not clients of the caller
func (r *ClientRepository) MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.store.missingIDs(ctx, ids)
}
