package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/mapper"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SiteService handles business logic for survey sites. Instrument
// availability follows site membership through the ConsistencyEngine.
type SiteService struct {
	db             *gorm.DB
	siteRepo       *repository.SiteRepository
	clientRepo     *repository.ClientRepository
	vehicleRepo    *repository.VehicleRepository
	crewRepo       *repository.CrewRepository
	instrumentRepo *repository.InstrumentRepository
	billRepo       *repository.BillRepository
	engine         *ConsistencyEngine
	logger         *zap.Logger
}

// NewSiteService creates a new SiteService
func NewSiteService(
	db *gorm.DB,
	siteRepo *repository.SiteRepository,
	clientRepo *repository.ClientRepository,
	vehicleRepo *repository.VehicleRepository,
	crewRepo *repository.CrewRepository,
	instrumentRepo *repository.InstrumentRepository,
	billRepo *repository.BillRepository,
	engine *ConsistencyEngine,
	logger *zap.Logger,
) *SiteService {
	return &SiteService{
		db:             db,
		siteRepo:       siteRepo,
		clientRepo:     clientRepo,
		vehicleRepo:    vehicleRepo,
		crewRepo:       crewRepo,
		instrumentRepo: instrumentRepo,
		billRepo:       billRepo,
		engine:         engine,
		logger:         logger,
	}
}

// siteRefs are the references a site write must resolve within the caller's partition
type siteRefs struct {
	clientID      *uuid.UUID
	vehicleID     *uuid.UUID
	billID        *uuid.UUID
	crewIDs       []uuid.UUID
	instrumentIDs []uuid.UUID
}

// Create stores a site and checks out its available instruments
func (s *SiteService) Create(ctx context.Context, req *domain.CreateSiteRequest) (*domain.SiteDTO, error) {
	site := &domain.Site{
		ClientID:      req.ClientID,
		VehicleID:     req.VehicleID,
		BillID:        req.BillID,
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		LocationURL:   req.LocationURL,
		StartDate:     req.StartDate.Time,
		EndDate:       req.EndDate.Ptr(),
		Status:        domain.SiteStatusPending,
		CrewIDs:       dedupeIDs(req.CrewIDs),
		InstrumentIDs: dedupeIDs(req.InstrumentIDs),
	}
	if req.Status != "" {
		site.Status = domain.SiteStatus(req.Status)
	}

	if err := s.validateReferences(ctx, siteRefs{
		clientID:      site.ClientID,
		vehicleID:     site.VehicleID,
		billID:        site.BillID,
		crewIDs:       site.CrewIDs,
		instrumentIDs: site.InstrumentIDs,
	}); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.siteRepo.WithTx(tx).Create(ctx, site); err != nil {
			return fmt.Errorf("failed to create site: %w", err)
		}
		return s.engine.SiteCreated(ctx, tx, site)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("site created",
		zap.String("siteID", site.ID.String()),
		zap.Int("instruments", len(site.InstrumentIDs)))
	dto := mapper.ToSiteDTO(site)
	return &dto, nil
}

// GetByID returns a site with the references named in include populated
func (s *SiteService) GetByID(ctx context.Context, id uuid.UUID, include string) (*domain.SiteDTO, error) {
	site, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrSiteNotFound, "get site")
	}
	dtos, err := s.expand(ctx, []domain.Site{*site}, repository.SiteSchema.Expansions(include))
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// Update applies a partial update. A new instrument list releases dropped
// instruments and checks out added ones in the same transaction.
func (s *SiteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSiteRequest) (*domain.SiteDTO, error) {
	site, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrSiteNotFound, "get site")
	}
	previousInstruments := site.InstrumentIDs

	refs := siteRefs{}
	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Address != nil {
		site.Address = *req.Address
	}
	if req.City != nil {
		site.City = *req.City
	}
	if req.State != nil {
		site.State = *req.State
	}
	if req.LocationURL != nil {
		site.LocationURL = *req.LocationURL
	}
	if req.StartDate != nil {
		site.StartDate = req.StartDate.Time
	}
	if req.EndDate != nil {
		site.EndDate = req.EndDate.Ptr()
	}
	if req.Status != nil {
		site.Status = domain.SiteStatus(*req.Status)
	}
	if req.ClientID != nil {
		site.ClientID = req.ClientID
		refs.clientID = req.ClientID
	}
	if req.VehicleID != nil {
		site.VehicleID = req.VehicleID
		refs.vehicleID = req.VehicleID
	}
	if req.CrewIDs != nil {
		site.CrewIDs = dedupeIDs(*req.CrewIDs)
		refs.crewIDs = site.CrewIDs
	}
	if req.InstrumentIDs != nil {
		site.InstrumentIDs = dedupeIDs(*req.InstrumentIDs)
		refs.instrumentIDs = site.InstrumentIDs
	}

	if err := s.validateReferences(ctx, refs); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.siteRepo.WithTx(tx).Update(ctx, site); err != nil {
			return notFoundOr(err, ErrSiteNotFound, "update site")
		}
		if req.InstrumentIDs == nil {
			return nil
		}
		return s.engine.SiteInstrumentsChanged(ctx, tx, site, previousInstruments)
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToSiteDTO(site)
	return &dto, nil
}

// Delete removes a site and releases every instrument it referenced
func (s *SiteService) Delete(ctx context.Context, id uuid.UUID) error {
	site, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, ErrSiteNotFound, "get site")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.siteRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return notFoundOr(err, ErrSiteNotFound, "delete site")
		}
		return s.engine.SiteDeleted(ctx, tx, site)
	})
	if err != nil {
		return err
	}

	s.logger.Info("site deleted", zap.String("siteID", id.String()))
	return nil
}

// List returns a page of sites with the references named in include populated
func (s *SiteService) List(ctx context.Context, q repository.ListQuery, include string) (*domain.PaginatedResponse, error) {
	q.Normalize()
	sites, total, err := s.siteRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	dtos, err := s.expand(ctx, sites, repository.SiteSchema.Expansions(include))
	if err != nil {
		return nil, err
	}
	return &domain.PaginatedResponse{Data: dtos, Pagination: domain.NewPagination(q.Page, q.Limit, total)}, nil
}

func (s *SiteService) validateReferences(ctx context.Context, refs siteRefs) error {
	errs := fieldErrors{}
	checks := []struct {
		field   string
		message string
		ids     []uuid.UUID
		missing func(context.Context, []uuid.UUID) ([]uuid.UUID, error)
	}{
		{"clientId", "Client not found", optionalID(refs.clientID), s.clientRepo.MissingIDs},
		{"vehicleId", "Vehicle not found", optionalID(refs.vehicleID), s.vehicleRepo.MissingIDs},
		{"billId", "Bill not found", optionalID(refs.billID), s.billRepo.MissingIDs},
		{"crewIds", "Unknown crew member", refs.crewIDs, s.crewRepo.MissingIDs},
		{"instrumentIds", "Unknown instrument", refs.instrumentIDs, s.instrumentRepo.MissingIDs},
	}
	for _, c := range checks {
		if len(c.ids) == 0 {
			continue
		}
		missing, err := c.missing(ctx, c.ids)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", c.field, err)
		}
		if len(missing) > 0 {
			errs.add(c.field, c.message)
		}
	}
	return errs.err()
}

// expand converts sites to DTOs, batch-loading each requested reference kind once
func (s *SiteService) expand(ctx context.Context, sites []domain.Site, include map[string]bool) ([]domain.SiteDTO, error) {
	dtos := make([]domain.SiteDTO, len(sites))
	for i := range sites {
		dtos[i] = mapper.ToSiteDTO(&sites[i])
	}
	if len(include) == 0 || len(sites) == 0 {
		return dtos, nil
	}

	var clientIDs, vehicleIDs, billIDs, crewIDs, instrumentIDs []uuid.UUID
	for _, site := range sites {
		clientIDs = append(clientIDs, optionalID(site.ClientID)...)
		vehicleIDs = append(vehicleIDs, optionalID(site.VehicleID)...)
		billIDs = append(billIDs, optionalID(site.BillID)...)
		crewIDs = append(crewIDs, site.CrewIDs...)
		instrumentIDs = append(instrumentIDs, site.InstrumentIDs...)
	}

	clients := map[uuid.UUID]*domain.Client{}
	if include["client"] {
		rows, err := s.clientRepo.GetByIDs(ctx, dedupeIDs(clientIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to load site clients: %w", err)
		}
		for i := range rows {
			clients[rows[i].ID] = &rows[i]
		}
	}
	vehicles := map[uuid.UUID]*domain.Vehicle{}
	if include["vehicle"] {
		rows, err := s.vehicleRepo.GetByIDs(ctx, dedupeIDs(vehicleIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to load site vehicles: %w", err)
		}
		for i := range rows {
			vehicles[rows[i].ID] = &rows[i]
		}
	}
	bills := map[uuid.UUID]*domain.Bill{}
	if include["bill"] {
		rows, err := s.billRepo.GetByIDs(ctx, dedupeIDs(billIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to load site bills: %w", err)
		}
		for i := range rows {
			bills[rows[i].ID] = &rows[i]
		}
	}
	crews := map[uuid.UUID]*domain.Crew{}
	if include["crews"] {
		rows, err := s.crewRepo.GetByIDs(ctx, dedupeIDs(crewIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to load site crews: %w", err)
		}
		for i := range rows {
			crews[rows[i].ID] = &rows[i]
		}
	}
	instruments := map[uuid.UUID]*domain.Instrument{}
	if include["instruments"] {
		rows, err := s.instrumentRepo.GetByIDs(ctx, dedupeIDs(instrumentIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to load site instruments: %w", err)
		}
		for i := range rows {
			instruments[rows[i].ID] = &rows[i]
		}
	}

	for i, site := range sites {
		if site.ClientID != nil {
			dtos[i].Client = mapper.ToClientSummaryDTO(clients[*site.ClientID])
		}
		if site.VehicleID != nil {
			dtos[i].Vehicle = mapper.ToVehicleSummaryDTO(vehicles[*site.VehicleID])
		}
		if site.BillID != nil {
			dtos[i].Bill = mapper.ToBillSummaryDTO(bills[*site.BillID])
		}
		if include["crews"] {
			dtos[i].Crews = []domain.CrewSummaryDTO{}
			for _, id := range site.CrewIDs {
				if crew, ok := crews[id]; ok {
					dtos[i].Crews = append(dtos[i].Crews, mapper.ToCrewSummaryDTO(crew))
				}
			}
		}
		if include["instruments"] {
			dtos[i].Instruments = []domain.InstrumentSummaryDTO{}
			for _, id := range site.InstrumentIDs {
				if instrument, ok := instruments[id]; ok {
					dtos[i].Instruments = append(dtos[i].Instruments, mapper.ToInstrumentSummaryDTO(instrument))
				}
			}
		}
	}
	return dtos, nil
}

func optionalID(id *uuid.UUID) []uuid.UUID {
	if id == nil {
		return nil
	}
	return []uuid.UUID{*id}
}
