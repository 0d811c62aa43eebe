package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
)

// AdminRepository handles admin accounts. Admins are the tenancy root and
// are not themselves owner-scoped.
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository instance
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new admin
func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// GetByID retrieves an admin by its ID
func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByEmail finds an admin by email, compared case-insensitively.
// Returns nil without error when no admin matches.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var admin domain.Admin
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// ListIDs returns every admin id, for jobs that run once per tenant
func (r *AdminRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Admin{}).Order("created_at ASC").Pluck("id", &ids).Error
	return ids, err
}
