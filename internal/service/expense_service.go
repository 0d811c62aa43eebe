package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/mapper"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"go.uber.org/zap"
)

// ExpenseService handles business logic for expenses
type ExpenseService struct {
	expenseRepo *repository.ExpenseRepository
	siteRepo    *repository.SiteRepository
	crewRepo    *repository.CrewRepository
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo *repository.ExpenseRepository,
	siteRepo *repository.SiteRepository,
	crewRepo *repository.CrewRepository,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		siteRepo:    siteRepo,
		crewRepo:    crewRepo,
		logger:      logger,
	}
}

func (s *ExpenseService) Create(ctx context.Context, req *domain.CreateExpenseRequest) (*domain.ExpenseDTO, error) {
	if err := s.validateReferences(ctx, req.SiteID, req.CrewID); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		Type:        domain.ExpenseType(req.Type),
		SiteID:      req.SiteID,
		CrewID:      req.CrewID,
		Amount:      *req.Amount,
		Description: req.Description,
		ExpenseDate: req.ExpenseDate.Time,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("expense created",
		zap.String("expenseID", expense.ID.String()),
		zap.String("type", string(expense.Type)),
		zap.Float64("amount", expense.Amount))
	return s.toDTO(ctx, expense)
}

func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExpenseDTO, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrExpenseNotFound, "get expense")
	}
	return s.toDTO(ctx, expense)
}

func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateExpenseRequest) (*domain.ExpenseDTO, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrExpenseNotFound, "get expense")
	}
	if err := s.validateReferences(ctx, req.SiteID, req.CrewID); err != nil {
		return nil, err
	}

	if req.Type != nil {
		expense.Type = domain.ExpenseType(*req.Type)
	}
	if req.SiteID != nil {
		expense.SiteID = req.SiteID
	}
	if req.CrewID != nil {
		expense.CrewID = req.CrewID
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = req.ExpenseDate.Time
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, notFoundOr(err, ErrExpenseNotFound, "update expense")
	}
	return s.toDTO(ctx, expense)
}

func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, ErrExpenseNotFound, "delete expense")
	}
	return nil
}

func (s *ExpenseService) List(ctx context.Context, q repository.ListQuery) (*domain.PaginatedResponse, error) {
	q.Normalize()
	expenses, total, err := s.expenseRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	dtos, err := s.expand(ctx, expenses)
	if err != nil {
		return nil, err
	}
	return &domain.PaginatedResponse{Data: dtos, Pagination: domain.NewPagination(q.Page, q.Limit, total)}, nil
}

func (s *ExpenseService) validateReferences(ctx context.Context, siteID, crewID *uuid.UUID) error {
	errs := fieldErrors{}
	if siteID != nil {
		missing, err := s.siteRepo.MissingIDs(ctx, []uuid.UUID{*siteID})
		if err != nil {
			return fmt.Errorf("failed to check site: %w", err)
		}
		if len(missing) > 0 {
			errs.add("siteId", "Site not found")
		}
	}
	if crewID != nil {
		missing, err := s.crewRepo.MissingIDs(ctx, []uuid.UUID{*crewID})
		if err != nil {
			return fmt.Errorf("failed to check crew member: %w", err)
		}
		if len(missing) > 0 {
			errs.add("crewId", "Crew member not found")
		}
	}
	return errs.err()
}

func (s *ExpenseService) toDTO(ctx context.Context, expense *domain.Expense) (*domain.ExpenseDTO, error) {
	dtos, err := s.expand(ctx, []domain.Expense{*expense})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// expand converts expenses to DTOs with site and crew summaries
func (s *ExpenseService) expand(ctx context.Context, expenses []domain.Expense) ([]domain.ExpenseDTO, error) {
	var siteIDs, crewIDs []uuid.UUID
	for _, e := range expenses {
		siteIDs = append(siteIDs, optionalID(e.SiteID)...)
		crewIDs = append(crewIDs, optionalID(e.CrewID)...)
	}

	sites, err := s.siteRepo.GetByIDs(ctx, dedupeIDs(siteIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load expense sites: %w", err)
	}
	siteByID := make(map[uuid.UUID]*domain.Site, len(sites))
	for i := range sites {
		siteByID[sites[i].ID] = &sites[i]
	}

	crews, err := s.crewRepo.GetByIDs(ctx, dedupeIDs(crewIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load expense crews: %w", err)
	}
	crewByID := make(map[uuid.UUID]*domain.Crew, len(crews))
	for i := range crews {
		crewByID[crews[i].ID] = &crews[i]
	}

	dtos := make([]domain.ExpenseDTO, len(expenses))
	for i := range expenses {
		dtos[i] = mapper.ToExpenseDTO(&expenses[i])
		if id := expenses[i].SiteID; id != nil {
			if site, ok := siteByID[*id]; ok {
				summary := mapper.ToSiteSummaryDTO(site)
				dtos[i].Site = &summary
			}
		}
		if id := expenses[i].CrewID; id != nil {
			if crew, ok := crewByID[*id]; ok {
				summary := mapper.ToCrewSummaryDTO(crew)
				dtos[i].Crew = &summary
			}
		}
	}
	return dtos, nil
}
