package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/config"
	"github.com/hiland-surveyors/survey-api/internal/database"
	"github.com/hiland-surveyors/survey-api/internal/http/handler"
	"github.com/hiland-surveyors/survey-api/internal/http/middleware"
	"github.com/hiland-surveyors/survey-api/internal/http/router"
	"github.com/hiland-surveyors/survey-api/internal/jobs"
	"github.com/hiland-surveyors/survey-api/internal/logger"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"github.com/hiland-surveyors/survey-api/internal/storage"
	"go.uber.org/zap"
)

// @title Survey Office API
// @version 1.0
// @description Back office API for land-surveying firms: clients, crews, vehicles, instruments, sites, bills, expenses and enquiries

// @host localhost:5000
// @BasePath /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// In development secrets come from the environment; in staging and
	// production from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := repository.ValidateSchemas(); err != nil {
		return fmt.Errorf("invalid list schema: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated")
	}

	reportStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Repositories
	adminRepo := repository.NewAdminRepository(db)
	clientRepo := repository.NewClientRepository(db)
	crewRepo := repository.NewCrewRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	billRepo := repository.NewBillRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	enquiryRepo := repository.NewEnquiryRepository(db)

	// Services
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	engine := service.NewConsistencyEngine(siteRepo, instrumentRepo, log)

	authService := service.NewAuthService(adminRepo, tokens, cfg.Auth.BcryptCost, log)
	clientService := service.NewClientService(db, clientRepo, siteRepo, billRepo, log)
	crewService := service.NewCrewService(crewRepo, cfg.Auth.BcryptCost, log)
	vehicleService := service.NewVehicleService(vehicleRepo, log)
	instrumentService := service.NewInstrumentService(instrumentRepo, log)
	siteService := service.NewSiteService(db, siteRepo, clientRepo, vehicleRepo, crewRepo, instrumentRepo, billRepo, engine, log)
	billService := service.NewBillService(db, billRepo, clientRepo, siteRepo, engine, log)
	expenseService := service.NewExpenseService(expenseRepo, siteRepo, crewRepo, log)
	enquiryService := service.NewEnquiryService(enquiryRepo, log)
	dashboardService := service.NewDashboardService(billRepo, expenseRepo, siteRepo, clientRepo, log)
	reminderService := service.NewReminderService(vehicleRepo, instrumentRepo, enquiryRepo, log)
	exportService := service.NewExportService(billRepo, expenseRepo, clientRepo, siteRepo, crewRepo, log)
	archiveService := service.NewReportArchiveService(adminRepo, exportService, reportStorage, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, adminRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(
		cfg,
		log,
		authMiddleware,
		rateLimiter,
		handler.NewHealthHandler(db, log),
		handler.NewAuthHandler(authService, log),
		handler.NewClientHandler(clientService, log),
		handler.NewCrewHandler(crewService, log),
		handler.NewVehicleHandler(vehicleService, log),
		handler.NewInstrumentHandler(instrumentService, log),
		handler.NewSiteHandler(siteService, log),
		handler.NewBillHandler(billService, exportService, log),
		handler.NewExpenseHandler(expenseService, exportService, log),
		handler.NewEnquiryHandler(enquiryService, log),
		handler.NewDashboardHandler(dashboardService, reminderService, log),
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log, cfg.Jobs.TimeoutDuration())

		if err := jobs.RegisterReminderJob(
			scheduler,
			adminRepo,
			reminderService,
			log,
			cfg.Jobs.ReminderCron,
			cfg.Jobs.ReminderWindowDays,
		); err != nil {
			log.Error("Failed to register reminder job", zap.Error(err))
		}

		if cfg.Jobs.ArchiveEnabled {
			if err := jobs.RegisterArchiveJob(
				scheduler,
				archiveService,
				log,
				cfg.Jobs.ArchiveCron,
			); err != nil {
				log.Error("Failed to register report archive job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.JobNames()))
	} else {
		log.Info("Background jobs disabled")
	}

	var h http.Handler = rt.Setup()
	if timeout := cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		h = http.TimeoutHandler(h, timeout, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"Request timed out"}}`)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
