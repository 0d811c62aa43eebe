package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// ErrMissingOwner is returned by any scoped query issued without an admin
// identity in the context. Such queries never reach the database.
var ErrMissingOwner = errors.New("no owning admin in context")

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// OwnerID returns the admin every query in ctx is scoped to
func OwnerID(ctx context.Context) (uuid.UUID, error) {
	adminID, ok := auth.AdminIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrMissingOwner
	}
	return adminID, nil
}

// ScopeToOwner starts a query restricted to the caller's admin partition.
// Without an admin in ctx the returned query carries ErrMissingOwner and
// every statement built from it fails before execution.
func ScopeToOwner(ctx context.Context, db *gorm.DB) *gorm.DB {
	query := db.WithContext(ctx)
	adminID, err := OwnerID(ctx)
	if err != nil {
		_ = query.AddError(err)
		return query
	}
	return query.Where("admin_id = ?", adminID)
}

// stampOwner sets the owning admin on a model about to be created
func stampOwner(ctx context.Context, m domain.Owned) error {
	adminID, err := OwnerID(ctx)
	if err != nil {
		return err
	}
	m.SetOwner(adminID)
	return nil
}

// IsUniqueViolation reports whether err is a unique constraint failure
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// IsNotFound reports whether err means the row does not exist for the caller
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
