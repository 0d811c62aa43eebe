package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConsistencyEngine keeps site and instrument status in step with bill and
// site writes. Every method runs inside the caller's transaction tx so the
// cascade commits or rolls back with the primary write.
type ConsistencyEngine struct {
	siteRepo       *repository.SiteRepository
	instrumentRepo *repository.InstrumentRepository
	logger         *zap.Logger
}

// NewConsistencyEngine creates a new ConsistencyEngine
func NewConsistencyEngine(
	siteRepo *repository.SiteRepository,
	instrumentRepo *repository.InstrumentRepository,
	logger *zap.Logger,
) *ConsistencyEngine {
	return &ConsistencyEngine{
		siteRepo:       siteRepo,
		instrumentRepo: instrumentRepo,
		logger:         logger,
	}
}

// BillCreated links every site the bill's items cover to the bill
func (e *ConsistencyEngine) BillCreated(ctx context.Context, tx *gorm.DB, bill *domain.Bill) error {
	return e.linkSites(ctx, tx, bill, itemSiteIDs(bill.Items))
}

// BillPaymentStatusChanged re-derives the status of every site the bill covers
func (e *ConsistencyEngine) BillPaymentStatusChanged(ctx context.Context, tx *gorm.DB, bill *domain.Bill) error {
	status := domain.SiteStatusFor(bill.PaymentStatus)
	n, err := e.siteRepo.WithTx(tx).SetStatus(ctx, bill.SiteIDs, status)
	if err != nil {
		return fmt.Errorf("failed to update site status for bill %s: %w", bill.ID, err)
	}
	e.logger.Info("site status re-derived from bill",
		zap.String("billID", bill.ID.String()),
		zap.String("status", string(status)),
		zap.Int64("sites", n))
	return nil
}

// BillSitesChanged releases sites dropped from the bill's items and links
// sites newly covered by them
func (e *ConsistencyEngine) BillSitesChanged(ctx context.Context, tx *gorm.DB, bill *domain.Bill, before []uuid.UUID) error {
	removed, added := diffIDs(before, bill.SiteIDs)
	if len(removed) > 0 {
		n, err := e.siteRepo.WithTx(tx).DetachFromBill(ctx, bill.ID, removed)
		if err != nil {
			return fmt.Errorf("failed to release sites from bill %s: %w", bill.ID, err)
		}
		e.logger.Info("sites released from bill",
			zap.String("billID", bill.ID.String()),
			zap.Int64("sites", n))
	}
	return e.linkSites(ctx, tx, bill, added)
}

// BillDeleted clears the bill from every site pointing at it
func (e *ConsistencyEngine) BillDeleted(ctx context.Context, tx *gorm.DB, billID uuid.UUID) error {
	n, err := e.siteRepo.WithTx(tx).DetachFromBill(ctx, billID, nil)
	if err != nil {
		return fmt.Errorf("failed to release sites from bill %s: %w", billID, err)
	}
	e.logger.Info("sites released from deleted bill",
		zap.String("billID", billID.String()),
		zap.Int64("sites", n))
	return nil
}

// SiteCreated checks out the site's available instruments
func (e *ConsistencyEngine) SiteCreated(ctx context.Context, tx *gorm.DB, site *domain.Site) error {
	return e.checkOut(ctx, tx, site.ID, site.InstrumentIDs)
}

// SiteInstrumentsChanged releases instruments dropped from the site and
// checks out the ones added
func (e *ConsistencyEngine) SiteInstrumentsChanged(ctx context.Context, tx *gorm.DB, site *domain.Site, before []uuid.UUID) error {
	removed, added := diffIDs(before, site.InstrumentIDs)
	if err := e.release(ctx, tx, site.ID, removed); err != nil {
		return err
	}
	return e.checkOut(ctx, tx, site.ID, added)
}

// SiteDeleted releases every instrument the site referenced
func (e *ConsistencyEngine) SiteDeleted(ctx context.Context, tx *gorm.DB, site *domain.Site) error {
	return e.release(ctx, tx, site.ID, site.InstrumentIDs)
}

func (e *ConsistencyEngine) linkSites(ctx context.Context, tx *gorm.DB, bill *domain.Bill, siteIDs []uuid.UUID) error {
	if len(siteIDs) == 0 {
		return nil
	}
	status := domain.SiteStatusFor(bill.PaymentStatus)
	n, err := e.siteRepo.WithTx(tx).AttachToBill(ctx, siteIDs, bill.ID, status)
	if err != nil {
		return fmt.Errorf("failed to link sites to bill %s: %w", bill.ID, err)
	}
	e.logger.Info("sites linked to bill",
		zap.String("billID", bill.ID.String()),
		zap.String("status", string(status)),
		zap.Int64("sites", n))
	return nil
}

func (e *ConsistencyEngine) checkOut(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, ids []uuid.UUID) error {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	moved, err := e.instrumentRepo.WithTx(tx).CheckOut(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check out instruments for site %s: %w", siteID, err)
	}
	if skipped, _ := diffIDs(ids, moved); len(skipped) > 0 {
		e.logger.Warn("instruments not available, left unchanged",
			zap.String("siteID", siteID.String()),
			zap.Strings("instrumentIDs", idStrings(skipped)))
	}
	return nil
}

func (e *ConsistencyEngine) release(ctx context.Context, tx *gorm.DB, siteID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := e.instrumentRepo.WithTx(tx).Release(ctx, dedupeIDs(ids))
	if err != nil {
		return fmt.Errorf("failed to release instruments for site %s: %w", siteID, err)
	}
	e.logger.Info("instruments released",
		zap.String("siteID", siteID.String()),
		zap.Int64("instruments", n))
	return nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
