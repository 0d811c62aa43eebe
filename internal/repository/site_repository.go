package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
)

// SiteRepository handles site data access within the caller's partition
type SiteRepository struct {
	store ownedStore[domain.Site]
}

// NewSiteRepository creates a new site repository instance
func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{store: newOwnedStore[domain.Site](db, SiteSchema)}
}

// WithTx returns a repository bound to tx
func (r *SiteRepository) WithTx(tx *gorm.DB) *SiteRepository {
	return &SiteRepository{store: r.store.withTx(tx)}
}

func (r *SiteRepository) Create(ctx context.Context, site *domain.Site) error {
	return r.store.create(ctx, site)
}

func (r *SiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Site, error) {
	return r.store.get(ctx, id)
}

func (r *SiteRepository) Update(ctx context.Context, site *domain.Site) error {
	return r.store.update(ctx, site.ID, site)
}

func (r *SiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

func (r *SiteRepository) List(ctx context.Context, q ListQuery) ([]domain.Site, int64, error) {
	return r.store.list(ctx, q, nil)
}

// ListAll returns every site of the caller
func (r *SiteRepository) ListAll(ctx context.Context) ([]domain.Site, error) {
	return r.store.all(ctx)
}

func (r *SiteRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Site, error) {
	return r.store.findByIDs(ctx, ids)
}

func (r *SiteRepository) MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.store.missingIDs(ctx, ids)
}

// ListByClient returns the caller's sites for one client
func (r *SiteRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Site, error) {
	var sites []domain.Site
	err := r.store.scoped(ctx).Where("client_id = ?", clientID).Find(&sites).Error
	return sites, err
}

// CountActiveByClient counts a client's sites that are not PROJECT COMPLETED
func (r *SiteRepository) CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.store.scoped(ctx).
		Where("client_id = ? AND status <> ?", clientID, domain.SiteStatusProjectCompleted).
		Count(&count).Error
	return count, err
}

// AttachToBill points each site in ids at billID and sets status
func (r *SiteRepository) AttachToBill(ctx context.Context, ids []uuid.UUID, billID uuid.UUID, status domain.SiteStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.store.scoped(ctx).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"bill_id": billID, "status": status})
	return result.RowsAffected, result.Error
}

// SetStatus sets status on each site in ids
func (r *SiteRepository) SetStatus(ctx context.Context, ids []uuid.UUID, status domain.SiteStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.store.scoped(ctx).Where("id IN ?", ids).Update("status", status)
	return result.RowsAffected, result.Error
}

// DetachFromBill clears billID from the sites pointing at it and resets
// their status. When ids is non-empty only those sites are considered.
func (r *SiteRepository) DetachFromBill(ctx context.Context, billID uuid.UUID, ids []uuid.UUID) (int64, error) {
	query := r.store.scoped(ctx).Where("bill_id = ?", billID)
	if ids != nil {
		if len(ids) == 0 {
			return 0, nil
		}
		query = query.Where("id IN ?", ids)
	}
	result := query.Updates(map[string]interface{}{
		"bill_id": nil,
		"status":  domain.SiteStatusDrawingCompleted,
	})
	return result.RowsAffected, result.Error
}
