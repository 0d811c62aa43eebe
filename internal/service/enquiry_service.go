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

// EnquiryService handles business logic for sales enquiries
type EnquiryService struct {
	enquiryRepo *repository.EnquiryRepository
	logger      *zap.Logger
}

// NewEnquiryService creates a new EnquiryService
func NewEnquiryService(enquiryRepo *repository.EnquiryRepository, logger *zap.Logger) *EnquiryService {
	return &EnquiryService{
		enquiryRepo: enquiryRepo,
		logger:      logger,
	}
}

func (s *EnquiryService) Create(ctx context.Context, req *domain.CreateEnquiryRequest) (*domain.EnquiryDTO, error) {
	status := domain.EnquiryStatusNew
	if req.Status != "" {
		status = domain.EnquiryStatus(req.Status)
	}

	enquiry := &domain.Enquiry{
		Subject:       req.Subject,
		Message:       req.Message,
		Status:        status,
		FollowUpDate:  req.FollowUpDate.Ptr(),
		ResponseNotes: req.ResponseNotes,
	}
	if err := s.enquiryRepo.Create(ctx, enquiry); err != nil {
		return nil, fmt.Errorf("failed to create enquiry: %w", err)
	}

	s.logger.Info("enquiry created", zap.String("enquiryID", enquiry.ID.String()))
	dto := mapper.ToEnquiryDTO(enquiry)
	return &dto, nil
}

func (s *EnquiryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.EnquiryDTO, error) {
	enquiry, err := s.enquiryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrEnquiryNotFound, "get enquiry")
	}
	dto := mapper.ToEnquiryDTO(enquiry)
	return &dto, nil
}

func (s *EnquiryService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateEnquiryRequest) (*domain.EnquiryDTO, error) {
	enquiry, err := s.enquiryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrEnquiryNotFound, "get enquiry")
	}

	if req.Subject != nil {
		enquiry.Subject = *req.Subject
	}
	if req.Message != nil {
		enquiry.Message = *req.Message
	}
	if req.Status != nil {
		enquiry.Status = domain.EnquiryStatus(*req.Status)
	}
	if req.FollowUpDate != nil {
		enquiry.FollowUpDate = req.FollowUpDate.Ptr()
	}
	if req.ResponseNotes != nil {
		enquiry.ResponseNotes = *req.ResponseNotes
	}

	if err := s.enquiryRepo.Update(ctx, enquiry); err != nil {
		return nil, notFoundOr(err, ErrEnquiryNotFound, "update enquiry")
	}

	dto := mapper.ToEnquiryDTO(enquiry)
	return &dto, nil
}

func (s *EnquiryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.enquiryRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, ErrEnquiryNotFound, "delete enquiry")
	}
	return nil
}

func (s *EnquiryService) List(ctx context.Context, q repository.ListQuery) (*domain.PaginatedResponse, error) {
	q.Normalize()
	enquiries, total, err := s.enquiryRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list enquiries: %w", err)
	}

	dtos := make([]domain.EnquiryDTO, len(enquiries))
	for i := range enquiries {
		dtos[i] = mapper.ToEnquiryDTO(&enquiries[i])
	}
	return &domain.PaginatedResponse{Data: dtos, Pagination: domain.NewPagination(q.Page, q.Limit, total)}, nil
}
