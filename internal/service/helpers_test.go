package service

import (
	"testing"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// testServices wires every service against one sqlite database
type testServices struct {
	db          *gorm.DB
	clients     *ClientService
	crews       *CrewService
	vehicles    *VehicleService
	instruments *InstrumentService
	sites       *SiteService
	bills       *BillService
	expenses    *ExpenseService
	enquiries   *EnquiryService
	dashboard   *DashboardService
	reminders   *ReminderService
	exports     *ExportService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	clientRepo := repository.NewClientRepository(db)
	crewRepo := repository.NewCrewRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	billRepo := repository.NewBillRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	enquiryRepo := repository.NewEnquiryRepository(db)

	engine := NewConsistencyEngine(siteRepo, instrumentRepo, logger)

	return &testServices{
		db:          db,
		clients:     NewClientService(db, clientRepo, siteRepo, billRepo, logger),
		crews:       NewCrewService(crewRepo, bcrypt.MinCost, logger),
		vehicles:    NewVehicleService(vehicleRepo, logger),
		instruments: NewInstrumentService(instrumentRepo, logger),
		sites:       NewSiteService(db, siteRepo, clientRepo, vehicleRepo, crewRepo, instrumentRepo, billRepo, engine, logger),
		bills:       NewBillService(db, billRepo, clientRepo, siteRepo, engine, logger),
		expenses:    NewExpenseService(expenseRepo, siteRepo, crewRepo, logger),
		enquiries:   NewEnquiryService(enquiryRepo, logger),
		dashboard:   NewDashboardService(billRepo, expenseRepo, siteRepo, clientRepo, logger),
		reminders:   NewReminderService(vehicleRepo, instrumentRepo, enquiryRepo, logger),
		exports:     NewExportService(billRepo, expenseRepo, clientRepo, siteRepo, crewRepo, logger),
	}
}

func date(y int, m time.Month, d int) *domain.Date {
	return domain.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func strPtr(s string) *string { return &s }
