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

// ClientService handles business logic for clients
type ClientService struct {
	db         *gorm.DB
	clientRepo *repository.ClientRepository
	siteRepo   *repository.SiteRepository
	billRepo   *repository.BillRepository
	logger     *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(
	db *gorm.DB,
	clientRepo *repository.ClientRepository,
	siteRepo *repository.SiteRepository,
	billRepo *repository.BillRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		db:         db,
		clientRepo: clientRepo,
		siteRepo:   siteRepo,
		billRepo:   billRepo,
		logger:     logger,
	}
}

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	client := &domain.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Address:   req.Address,
		GSTNumber: req.GSTNumber,
		Notes:     req.Notes,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created", zap.String("clientID", client.ID.String()))
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// GetByID returns a client, with project and billing statistics when includeStats is set
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID, includeStats bool) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrClientNotFound, "get client")
	}

	dto := mapper.ToClientDTO(client)
	if includeStats {
		sites, err := s.siteRepo.ListByClient(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load client sites: %w", err)
		}
		bills, err := s.billRepo.ListByCustomer(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load client bills: %w", err)
		}
		stats := summarizeClient(sites, bills)
		dto.Stats = &domain.ClientStatsDTO{
			TotalProjects:     stats.totalProjects,
			ActiveProjects:    stats.activeProjects,
			CompletedProjects: stats.completedProjects,
			TotalBills:        len(bills),
			TotalRevenue:      stats.totalRevenue.InexactFloat64(),
			PaidAmount:        stats.paidAmount.InexactFloat64(),
			PendingAmount:     stats.pendingAmount().InexactFloat64(),
		}
	}
	return &dto, nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrClientNotFound, "get client")
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Company != nil {
		client.Company = *req.Company
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.GSTNumber != nil {
		client.GSTNumber = *req.GSTNumber
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, notFoundOr(err, ErrClientNotFound, "update client")
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// Delete removes a client that has no bills and no active sites
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.clientRepo.WithTx(tx).GetByID(ctx, id); err != nil {
			return notFoundOr(err, ErrClientNotFound, "get client")
		}

		bills, err := s.billRepo.WithTx(tx).CountByCustomer(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count client bills: %w", err)
		}
		active, err := s.siteRepo.WithTx(tx).CountActiveByClient(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count client sites: %w", err)
		}
		if bills > 0 || active > 0 {
			return ErrClientHasDependents
		}

		if err := s.clientRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return notFoundOr(err, ErrClientNotFound, "delete client")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("client deleted", zap.String("clientID", id.String()))
	return nil
}

func (s *ClientService) List(ctx context.Context, q repository.ListQuery) (*domain.PaginatedResponse, error) {
	q.Normalize()
	clients, total, err := s.clientRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = mapper.ToClientDTO(&clients[i])
	}
	return &domain.PaginatedResponse{Data: dtos, Pagination: domain.NewPagination(q.Page, q.Limit, total)}, nil
}
