package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/mapper"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"go.uber.org/zap"
)

// InstrumentService handles business logic for survey instruments
type InstrumentService struct {
	instrumentRepo *repository.InstrumentRepository
	logger         *zap.Logger
}

// NewInstrumentService creates a new InstrumentService
func NewInstrumentService(instrumentRepo *repository.InstrumentRepository, logger *zap.Logger) *InstrumentService {
	return &InstrumentService{
		instrumentRepo: instrumentRepo,
		logger:         logger,
	}
}

func (s *InstrumentService) Create(ctx context.Context, req *domain.CreateInstrumentRequest) (*domain.InstrumentDTO, error) {
	status := domain.InstrumentStatusAvailable
	if req.Status != "" {
		status = domain.InstrumentStatus(req.Status)
	}

	instrument := &domain.Instrument{
		Name:           req.Name,
		Type:           req.Type,
		SerialNumber:   strings.TrimSpace(req.SerialNumber),
		Status:         status,
		LastServicedOn: req.LastServicedOn.Ptr(),
	}
	if err := s.instrumentRepo.Create(ctx, instrument); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateSerialNumber
		}
		return nil, fmt.Errorf("failed to create instrument: %w", err)
	}

	s.logger.Info("instrument created", zap.String("instrumentID", instrument.ID.String()))
	dto := mapper.ToInstrumentDTO(instrument)
	return &dto, nil
}

func (s *InstrumentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InstrumentDTO, error) {
	instrument, err := s.instrumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrInstrumentNotFound, "get instrument")
	}
	dto := mapper.ToInstrumentDTO(instrument)
	return &dto, nil
}

// Update edits an instrument. A direct status change is allowed so that
// instruments can be sent to repair or written off.
func (s *InstrumentService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInstrumentRequest) (*domain.InstrumentDTO, error) {
	instrument, err := s.instrumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrInstrumentNotFound, "get instrument")
	}

	if req.Name != nil {
		instrument.Name = *req.Name
	}
	if req.Type != nil {
		instrument.Type = *req.Type
	}
	if req.SerialNumber != nil {
		instrument.SerialNumber = strings.TrimSpace(*req.SerialNumber)
	}
	if req.Status != nil {
		instrument.Status = domain.InstrumentStatus(*req.Status)
	}
	if req.LastServicedOn != nil {
		instrument.LastServicedOn = req.LastServicedOn.Ptr()
	}

	if err := s.instrumentRepo.Update(ctx, instrument); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateSerialNumber
		}
		return nil, notFoundOr(err, ErrInstrumentNotFound, "update instrument")
	}

	dto := mapper.ToInstrumentDTO(instrument)
	return &dto, nil
}

func (s *InstrumentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.instrumentRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, ErrInstrumentNotFound, "delete instrument")
	}
	s.logger.Info("instrument deleted", zap.String("instrumentID", id.String()))
	return nil
}

func (s *InstrumentService) List(ctx context.Context, q repository.ListQuery) (*domain.PaginatedResponse, error) {
	q.Normalize()
	instruments, total, err := s.instrumentRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	dtos := make([]domain.InstrumentDTO, len(instruments))
	for i := range instruments {
		dtos[i] = mapper.ToInstrumentDTO(&instruments[i])
	}
	return &domain.PaginatedResponse{Data: dtos, Pagination: domain.NewPagination(q.Page, q.Limit, total)}, nil
}
