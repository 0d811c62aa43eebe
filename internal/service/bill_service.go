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
	"gorm.io/gorm"
)

// BillService handles business logic for bills. Totals are always derived
// by CalculateBillTotals and site linkage follows through the ConsistencyEngine.
type BillService struct {
	db         *gorm.DB
	billRepo   *repository.BillRepository
	clientRepo *repository.ClientRepository
	siteRepo   *repository.SiteRepository
	engine     *ConsistencyEngine
	logger     *zap.Logger
}

// NewBillService creates a new BillService
func NewBillService(
	db *gorm.DB,
	billRepo *repository.BillRepository,
	clientRepo *repository.ClientRepository,
	siteRepo *repository.SiteRepository,
	engine *ConsistencyEngine,
	logger *zap.Logger,
) *BillService {
	return &BillService{
		db:         db,
		billRepo:   billRepo,
		clientRepo: clientRepo,
		siteRepo:   siteRepo,
		engine:     engine,
		logger:     logger,
	}
}

// Create stores a bill and links every site its items cover
func (s *BillService) Create(ctx context.Context, req *domain.CreateBillRequest) (*domain.BillDTO, error) {
	if len(req.Items) == 0 {
		return nil, newValidationError("items", "At least one bill item is required")
	}

	items := mapper.ToBillItems(req.Items)
	bill := &domain.Bill{
		CustomerID:    req.CustomerID,
		BillNumber:    strings.TrimSpace(req.BillNumber),
		BillDate:      req.BillDate.Time,
		Items:         items,
		SiteIDs:       itemSiteIDs(items),
		IsGSTBill:     req.IsGSTBill,
		StateGST:      req.StateGST,
		CentralGST:    req.CentralGST,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Notes:         req.Notes,
	}
	if req.PaymentStatus != "" {
		bill.PaymentStatus = domain.PaymentStatus(req.PaymentStatus)
	}

	if err := s.validateReferences(ctx, &bill.CustomerID, bill.SiteIDs); err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, bill.BillNumber, uuid.Nil); err != nil {
		return nil, err
	}

	applyBillTotals(bill)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.billRepo.WithTx(tx).Create(ctx, bill); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrDuplicateBillNumber
			}
			return fmt.Errorf("failed to create bill: %w", err)
		}
		return s.engine.BillCreated(ctx, tx, bill)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bill created",
		zap.String("billID", bill.ID.String()),
		zap.String("billNumber", bill.BillNumber),
		zap.Float64("totalAmount", bill.TotalAmount))
	return s.toDTO(ctx, bill)
}

func (s *BillService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillDTO, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrBillNotFound, "get bill")
	}
	return s.toDTO(ctx, bill)
}

// Update applies a partial update and re-derives the totals. Replacing the
// items relinks sites; a payment status change re-derives site status.
func (s *BillService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateBillRequest) (*domain.BillDTO, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrBillNotFound, "get bill")
	}
	previousStatus := bill.PaymentStatus
	previousSites := bill.SiteIDs

	var customerID *uuid.UUID
	var siteIDs []uuid.UUID
	if req.CustomerID != nil {
		bill.CustomerID = *req.CustomerID
		customerID = req.CustomerID
	}
	if req.Items != nil {
		if len(*req.Items) == 0 {
			return nil, newValidationError("items", "At least one bill item is required")
		}
		bill.Items = mapper.ToBillItems(*req.Items)
		bill.SiteIDs = itemSiteIDs(bill.Items)
		siteIDs = bill.SiteIDs
	}
	if err := s.validateReferences(ctx, customerID, siteIDs); err != nil {
		return nil, err
	}

	if req.BillNumber != nil {
		number := strings.TrimSpace(*req.BillNumber)
		if number != bill.BillNumber {
			if err := s.ensureNumberFree(ctx, number, bill.ID); err != nil {
				return nil, err
			}
			bill.BillNumber = number
		}
	}
	if req.BillDate != nil {
		bill.BillDate = req.BillDate.Time
	}
	if req.IsGSTBill != nil {
		bill.IsGSTBill = *req.IsGSTBill
	}
	if req.StateGST != nil {
		bill.StateGST = *req.StateGST
	}
	if req.CentralGST != nil {
		bill.CentralGST = *req.CentralGST
	}
	if req.PaymentStatus != nil {
		bill.PaymentStatus = domain.PaymentStatus(*req.PaymentStatus)
	}
	if req.Notes != nil {
		bill.Notes = *req.Notes
	}

	applyBillTotals(bill)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		bills := s.billRepo.WithTx(tx)
		if err := bills.Update(ctx, bill); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrDuplicateBillNumber
			}
			return notFoundOr(err, ErrBillNotFound, "update bill")
		}
		if req.Items != nil {
			if err := bills.ReplaceItems(ctx, bill.ID, bill.Items); err != nil {
				return fmt.Errorf("failed to replace bill items: %w", err)
			}
			if err := s.engine.BillSitesChanged(ctx, tx, bill, previousSites); err != nil {
				return err
			}
		}
		if bill.PaymentStatus != previousStatus {
			return s.engine.BillPaymentStatusChanged(ctx, tx, bill)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bill updated",
		zap.String("billID", bill.ID.String()),
		zap.String("paymentStatus", string(bill.PaymentStatus)))
	return s.toDTO(ctx, bill)
}

// Delete removes a bill and releases every site linked to it
func (s *BillService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.billRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return notFoundOr(err, ErrBillNotFound, "delete bill")
		}
		return s.engine.BillDeleted(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("bill deleted", zap.String("billID", id.String()))
	return nil
}

func (s *BillService) List(ctx context.Context, q repository.ListQuery) (*domain.PaginatedResponse, error) {
	q.Normalize()
	bills, total, err := s.billRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	dtos, err := s.expand(ctx, bills)
	if err != nil {
		return nil, err
	}
	return &domain.PaginatedResponse{Data: dtos, Pagination: domain.NewPagination(q.Page, q.Limit, total)}, nil
}

// NextNumber suggests the next bill number for the caller
func (s *BillService) NextNumber(ctx context.Context) (*domain.NextBillNumberDTO, error) {
	latest, err := s.billRepo.LatestNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest bill number: %w", err)
	}
	return &domain.NextBillNumberDTO{NextBillNumber: NextBillNumber(latest)}, nil
}

func (s *BillService) validateReferences(ctx context.Context, customerID *uuid.UUID, siteIDs []uuid.UUID) error {
	errs := fieldErrors{}
	if customerID != nil {
		missing, err := s.clientRepo.MissingIDs(ctx, []uuid.UUID{*customerID})
		if err != nil {
			return fmt.Errorf("failed to check customer: %w", err)
		}
		if len(missing) > 0 {
			errs.add("customerId", "Client not found")
		}
	}
	if len(siteIDs) > 0 {
		missing, err := s.siteRepo.MissingIDs(ctx, siteIDs)
		if err != nil {
			return fmt.Errorf("failed to check sites: %w", err)
		}
		if len(missing) > 0 {
			errs.add("items", fmt.Sprintf("Unknown site %s", missing[0]))
		}
	}
	return errs.err()
}

func (s *BillService) ensureNumberFree(ctx context.Context, number string, self uuid.UUID) error {
	taken, err := s.billRepo.NumberTaken(ctx, number, self)
	if err != nil {
		return fmt.Errorf("failed to check bill number: %w", err)
	}
	if taken {
		return ErrDuplicateBillNumber
	}
	return nil
}

func (s *BillService) toDTO(ctx context.Context, bill *domain.Bill) (*domain.BillDTO, error) {
	dtos, err := s.expand(ctx, []domain.Bill{*bill})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// expand converts bills to DTOs with customer and site summaries
func (s *BillService) expand(ctx context.Context, bills []domain.Bill) ([]domain.BillDTO, error) {
	dtos := make([]domain.BillDTO, len(bills))
	if len(bills) == 0 {
		return dtos, nil
	}

	var customerIDs, siteIDs []uuid.UUID
	for _, bill := range bills {
		customerIDs = append(customerIDs, bill.CustomerID)
		siteIDs = append(siteIDs, bill.SiteIDs...)
	}

	customers, err := s.clientRepo.GetByIDs(ctx, dedupeIDs(customerIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load bill customers: %w", err)
	}
	customerByID := make(map[uuid.UUID]*domain.Client, len(customers))
	for i := range customers {
		customerByID[customers[i].ID] = &customers[i]
	}

	sites, err := s.siteRepo.GetByIDs(ctx, dedupeIDs(siteIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load bill sites: %w", err)
	}
	siteByID := make(map[uuid.UUID]*domain.Site, len(sites))
	for i := range sites {
		siteByID[sites[i].ID] = &sites[i]
	}

	for i := range bills {
		dtos[i] = mapper.ToBillDTO(&bills[i])
		dtos[i].Customer = mapper.ToClientSummaryDTO(customerByID[bills[i].CustomerID])
		dtos[i].Sites = []domain.SiteSummaryDTO{}
		for _, id := range bills[i].SiteIDs {
			if site, ok := siteByID[id]; ok {
				dtos[i].Sites = append(dtos[i].Sites, mapper.ToSiteSummaryDTO(site))
			}
		}
	}
	return dtos, nil
}
