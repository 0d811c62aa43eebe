// Package testutil provides sqlite-backed fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/database"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB opens a migrated sqlite database private to t
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "survey.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", path)

	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	require.NoError(t, err, "failed to open sqlite test database")
	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateTestAdmin inserts an admin with a throwaway password hash
func CreateTestAdmin(t *testing.T, db *gorm.DB, name string) *domain.Admin {
	t.Helper()
	admin := &domain.Admin{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "$2a$04$not-a-real-hash",
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

// AdminContext returns a context acting as admin
func AdminContext(admin *domain.Admin) context.Context {
	return auth.WithAdminContext(context.Background(), &auth.AdminContext{
		AdminID: admin.ID,
		Name:    admin.Name,
		Email:   admin.Email,
	})
}

// CreateTestClient inserts a client owned by admin
func CreateTestClient(t *testing.T, db *gorm.DB, admin *domain.Admin, name string) *domain.Client {
	t.Helper()
	client := &domain.Client{Name: name, Company: name + " Pvt Ltd"}
	client.AdminID = admin.ID
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestSite inserts a pending site owned by admin
func CreateTestSite(t *testing.T, db *gorm.DB, admin *domain.Admin, name string, clientID *uuid.UUID) *domain.Site {
	t.Helper()
	site := &domain.Site{
		ClientID:  clientID,
		Name:      name,
		Address:   "12 Survey Road",
		City:      "Pune",
		State:     "MH",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:    domain.SiteStatusPending,
	}
	site.AdminID = admin.ID
	require.NoError(t, db.Create(site).Error)
	return site
}

// CreateTestInstrument inserts an instrument with the given status
func CreateTestInstrument(t *testing.T, db *gorm.DB, admin *domain.Admin, name string, status domain.InstrumentStatus) *domain.Instrument {
	t.Helper()
	instrument := &domain.Instrument{
		Name:         name,
		Type:         "Total Station",
		SerialNumber: "SN-" + uuid.NewString()[:12],
		Status:       status,
	}
	instrument.AdminID = admin.ID
	require.NoError(t, db.Create(instrument).Error)
	return instrument
}

// Reload reads the current row for model by primary key, bypassing any scope
func Reload[T any](t *testing.T, db *gorm.DB, id uuid.UUID) *T {
	t.Helper()
	var out T
	require.NoError(t, db.First(&out, "id = ?", id).Error)
	return &out
}
