package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// MaxExportRows caps the rows written to one workbook
const MaxExportRows = 5000

// XLSXContentType is the media type of the generated workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService renders bills and expenses as .xlsx workbooks
type ExportService struct {
	billRepo    *repository.BillRepository
	expenseRepo *repository.ExpenseRepository
	clientRepo  *repository.ClientRepository
	siteRepo    *repository.SiteRepository
	crewRepo    *repository.CrewRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(
	billRepo *repository.BillRepository,
	expenseRepo *repository.ExpenseRepository,
	clientRepo *repository.ClientRepository,
	siteRepo *repository.SiteRepository,
	crewRepo *repository.CrewRepository,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		billRepo:    billRepo,
		expenseRepo: expenseRepo,
		clientRepo:  clientRepo,
		siteRepo:    siteRepo,
		crewRepo:    crewRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// sheet is a titled table with an optional key/value summary
type sheet struct {
	title   string
	headers []string
	rows    [][]interface{}
	summary [][2]interface{}
}

// BillsWorkbook renders every bill matching q
func (s *ExportService) BillsWorkbook(ctx context.Context, q repository.ListQuery) (*bytes.Buffer, error) {
	bills, err := s.billRepo.FindAll(ctx, q, MaxExportRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}

	var customerIDs []uuid.UUID
	for _, b := range bills {
		customerIDs = append(customerIDs, b.CustomerID)
	}
	customers, err := s.clientRepo.GetByIDs(ctx, dedupeIDs(customerIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	names := make(map[uuid.UUID]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	sh := sheet{
		title: "Bills",
		headers: []string{
			"Bill Number", "Bill Date", "Customer", "Items", "Subtotal",
			"State GST %", "Central GST %", "Tax", "Total", "Payment Status",
		},
	}
	var total, paid float64
	for _, b := range bills {
		sh.rows = append(sh.rows, []interface{}{
			b.BillNumber, b.BillDate.Format("2006-01-02"), names[b.CustomerID], len(b.Items), b.Subtotal,
			b.StateGST, b.CentralGST, b.TotalTaxAmount, b.TotalAmount, string(b.PaymentStatus),
		})
		total += b.TotalAmount
		if b.PaymentStatus == domain.PaymentStatusPaid {
			paid += b.TotalAmount
		}
	}
	sh.summary = [][2]interface{}{
		{"Bills", len(bills)},
		{"Total Amount", total},
		{"Paid", paid},
		{"Pending", total - paid},
	}

	return s.render(sh)
}

// ExpensesWorkbook renders every expense matching q
func (s *ExportService) ExpensesWorkbook(ctx context.Context, q repository.ListQuery) (*bytes.Buffer, error) {
	expenses, err := s.expenseRepo.FindAll(ctx, q, MaxExportRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	var siteIDs, crewIDs []uuid.UUID
	for _, e := range expenses {
		siteIDs = append(siteIDs, optionalID(e.SiteID)...)
		crewIDs = append(crewIDs, optionalID(e.CrewID)...)
	}
	sites, err := s.siteRepo.GetByIDs(ctx, dedupeIDs(siteIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	siteNames := make(map[uuid.UUID]string, len(sites))
	for _, site := range sites {
		siteNames[site.ID] = site.Name
	}
	crews, err := s.crewRepo.GetByIDs(ctx, dedupeIDs(crewIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load crews: %w", err)
	}
	crewNames := make(map[uuid.UUID]string, len(crews))
	for _, c := range crews {
		crewNames[c.ID] = c.Name
	}

	sh := sheet{
		title:   "Expenses",
		headers: []string{"Date", "Type", "Amount", "Site", "Crew", "Description"},
	}
	for _, e := range expenses {
		var site, crew string
		if e.SiteID != nil {
			site = siteNames[*e.SiteID]
		}
		if e.CrewID != nil {
			crew = crewNames[*e.CrewID]
		}
		sh.rows = append(sh.rows, []interface{}{
			e.ExpenseDate.Format("2006-01-02"), string(e.Type), e.Amount, site, crew, e.Description,
		})
	}
	byType, total := ExpenseBreakdown(expenses)
	sh.summary = append(sh.summary, [2]interface{}{"Total", total})
	for _, t := range byType {
		sh.summary = append(sh.summary, [2]interface{}{t.Type, t.Amount})
	}

	return s.render(sh)
}

func (s *ExportService) render(sh sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sh.title)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	f.SetCellValue(sh.title, "A1", sh.title)
	f.SetCellStyle(sh.title, "A1", "A1", titleStyle)
	f.SetCellValue(sh.title, "A2", fmt.Sprintf("Generated: %s", s.now().UTC().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for col, header := range sh.headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 4)
		f.SetCellValue(sh.title, cell, header)
		f.SetCellStyle(sh.title, cell, cell, headerStyle)
		name, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sh.title, name, name, 18)
	}

	for r, row := range sh.rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+5)
			f.SetCellValue(sh.title, cell, value)
		}
	}

	if len(sh.summary) > 0 {
		summaryRow := len(sh.rows) + 7
		summaryStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{
				Bold: true,
			},
		})
		cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
		f.SetCellValue(sh.title, cell, "Summary")
		f.SetCellStyle(sh.title, cell, cell, summaryStyle)
		for _, kv := range sh.summary {
			summaryRow++
			keyCell, _ := excelize.CoordinatesToCellName(1, summaryRow)
			valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow)
			f.SetCellValue(sh.title, keyCell, kv[0])
			f.SetCellValue(sh.title, valueCell, kv[1])
		}
	}

	// Delete default Sheet1 now that the named sheet exists
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
