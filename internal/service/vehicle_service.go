package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/mapper"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"go.uber.org/zap"
)

// VehicleService handles business logic for vehicles
type VehicleService struct {
	vehicleRepo *repository.VehicleRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewVehicleService creates a new VehicleService
func NewVehicleService(vehicleRepo *repository.VehicleRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *VehicleService) Create(ctx context.Context, req *domain.CreateVehicleRequest) (*domain.VehicleDTO, error) {
	if err := s.validateYear(req.Year); err != nil {
		return nil, err
	}

	status := domain.VehicleStatusActive
	if req.Status != "" {
		status = domain.VehicleStatus(req.Status)
	}

	vehicle := &domain.Vehicle{
		Name:               req.Name,
		Type:               domain.VehicleType(req.Type),
		RegistrationNumber: normalizeRegistration(req.RegistrationNumber),
		Model:              req.Model,
		Year:               req.Year,
		Status:             status,
		InsuranceExpiry:    req.InsuranceExpiry.Ptr(),
		PollutionExpiry:    req.PollutionExpiry.Ptr(),
		ServiceDueDate:     req.ServiceDueDate.Ptr(),
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("vehicle created", zap.String("vehicleID", vehicle.ID.String()))
	dto := mapper.ToVehicleDTO(vehicle)
	return &dto, nil
}

func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.VehicleDTO, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrVehicleNotFound, "get vehicle")
	}
	dto := mapper.ToVehicleDTO(vehicle)
	return &dto, nil
}

func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateVehicleRequest) (*domain.VehicleDTO, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrVehicleNotFound, "get vehicle")
	}
	if err := s.validateYear(req.Year); err != nil {
		return nil, err
	}

	if req.Name != nil {
		vehicle.Name = *req.Name
	}
	if req.Type != nil {
		vehicle.Type = domain.VehicleType(*req.Type)
	}
	if req.RegistrationNumber != nil {
		vehicle.RegistrationNumber = normalizeRegistration(*req.RegistrationNumber)
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = req.Year
	}
	if req.Status != nil {
		vehicle.Status = domain.VehicleStatus(*req.Status)
	}
	if req.InsuranceExpiry != nil {
		vehicle.InsuranceExpiry = req.InsuranceExpiry.Ptr()
	}
	if req.PollutionExpiry != nil {
		vehicle.PollutionExpiry = req.PollutionExpiry.Ptr()
	}
	if req.ServiceDueDate != nil {
		vehicle.ServiceDueDate = req.ServiceDueDate.Ptr()
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateRegistration
		}
		return nil, notFoundOr(err, ErrVehicleNotFound, "update vehicle")
	}

	dto := mapper.ToVehicleDTO(vehicle)
	return &dto, nil
}

func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, ErrVehicleNotFound, "delete vehicle")
	}
	s.logger.Info("vehicle deleted", zap.String("vehicleID", id.String()))
	return nil
}

func (s *VehicleService) List(ctx context.Context, q repository.ListQuery) (*domain.PaginatedResponse, error) {
	q.Normalize()
	vehicles, total, err := s.vehicleRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	dtos := make([]domain.VehicleDTO, len(vehicles))
	for i := range vehicles {
		dtos[i] = mapper.ToVehicleDTO(&vehicles[i])
	}
	return &domain.PaginatedResponse{Data: dtos, Pagination: domain.NewPagination(q.Page, q.Limit, total)}, nil
}

// validateYear rejects model years after next year
func (s *VehicleService) validateYear(year *int) error {
	if year == nil {
		return nil
	}
	if limit := s.now().Year() + 1; *year > limit {
		return newValidationError("year", fmt.Sprintf("Must be less than or equal to %d", limit))
	}
	return nil
}

func normalizeRegistration(reg string) string {
	return strings.ToUpper(strings.TrimSpace(reg))
}
