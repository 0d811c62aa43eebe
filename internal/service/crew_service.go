package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/mapper"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"go.uber.org/zap"
)

// CrewService handles business logic for crew members
type CrewService struct {
	crewRepo   *repository.CrewRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewCrewService creates a new CrewService
func NewCrewService(crewRepo *repository.CrewRepository, bcryptCost int, logger *zap.Logger) *CrewService {
	return &CrewService{
		crewRepo:   crewRepo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *CrewService) Create(ctx context.Context, req *domain.CreateCrewRequest) (*domain.CrewDTO, error) {
	username := strings.TrimSpace(req.Username)
	if err := s.ensureUsernameFree(ctx, username, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	crew := &domain.Crew{
		Name:         req.Name,
		Username:     username,
		PasswordHash: hash,
		IsActive:     isActive,
	}
	if err := s.crewRepo.Create(ctx, crew); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create crew member: %w", err)
	}

	s.logger.Info("crew member created", zap.String("crewID", crew.ID.String()))
	dto := mapper.ToCrewDTO(crew)
	return &dto, nil
}

func (s *CrewService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CrewDTO, error) {
	crew, err := s.crewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCrewNotFound, "get crew member")
	}
	dto := mapper.ToCrewDTO(crew)
	return &dto, nil
}

func (s *CrewService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCrewRequest) (*domain.CrewDTO, error) {
	crew, err := s.crewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCrewNotFound, "get crew member")
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != crew.Username {
			if err := s.ensureUsernameFree(ctx, username, crew.ID); err != nil {
				return nil, err
			}
			crew.Username = username
		}
	}
	if req.Name != nil {
		crew.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		crew.PasswordHash = hash
	}
	if req.IsActive != nil {
		crew.IsActive = *req.IsActive
	}

	if err := s.crewRepo.Update(ctx, crew); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, notFoundOr(err, ErrCrewNotFound, "update crew member")
	}

	dto := mapper.ToCrewDTO(crew)
	return &dto, nil
}

func (s *CrewService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.crewRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, ErrCrewNotFound, "delete crew member")
	}
	s.logger.Info("crew member deleted", zap.String("crewID", id.String()))
	return nil
}

func (s *CrewService) List(ctx context.Context, q repository.ListQuery) (*domain.PaginatedResponse, error) {
	q.Normalize()
	crews, total, err := s.crewRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list crew members: %w", err)
	}

	dtos := make([]domain.CrewDTO, len(crews))
	for i := range crews {
		dtos[i] = mapper.ToCrewDTO(&crews[i])
	}
	return &domain.PaginatedResponse{Data: dtos, Pagination: domain.NewPagination(q.Page, q.Limit, total)}, nil
}

func (s *CrewService) ensureUsernameFree(ctx context.Context, username string, self uuid.UUID) error {
	existing, err := s.crewRepo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil && existing.ID != self {
		return ErrDuplicateUsername
	}
	return nil
}
