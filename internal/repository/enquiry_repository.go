package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
)

// EnquiryRepository handles enquiry data access within the caller's partition
type EnquiryRepository struct {
	store ownedStore[domain.Enquiry]
}

// NewEnquiryRepository creates a new enquiry repository instance
func NewEnquiryRepository(db *gorm.DB) *EnquiryRepository {
	return &EnquiryRepository{store: newOwnedStore[domain.Enquiry](db, EnquirySchema)}
}

func (r *EnquiryRepository) Create(ctx context.Context, enquiry *domain.Enquiry) error {
	return r.store.create(ctx, enquiry)
}

func (r *EnquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enquiry, error) {
	return r.store.get(ctx, id)
}

func (r *EnquiryRepository) Update(ctx context.Context, enquiry *domain.Enquiry) error {
	return r.store.update(ctx, enquiry.ID, enquiry)
}

func (r *EnquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.delete(ctx, id)
}

func (r *EnquiryRepository) List(ctx context.Context, q ListQuery) ([]domain.Enquiry, int64, error) {
	return r.store.list(ctx, q, nil)
}

// FollowUpsDue returns open enquiries with a follow-up date on or before until
func (r *EnquiryRepository) FollowUpsDue(ctx context.Context, until time.Time) ([]domain.Enquiry, error) {
	var enquiries []domain.Enquiry
	err := r.store.scoped(ctx).
		Where("status IN ?", []domain.EnquiryStatus{domain.EnquiryStatusNew, domain.EnquiryStatusInProgress}).
		Where("follow_up_date IS NOT NULL AND follow_up_date <= ?", until).
		Order("follow_up_date ASC").
		Find(&enquiries).Error
	return enquiries, err
}
