package handler

import (
	"net/http"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

type BillHandler struct {
	billService   *service.BillService
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewBillHandler(billService *service.BillService, exportService *service.ExportService, logger *zap.Logger) *BillHandler {
	return &BillHandler{
		billService:   billService,
		exportService: exportService,
		logger:        logger,
	}
}

// List godoc
// @Summary List bills
// @Description Returns a page of bills. search also matches the customer name.
// @Tags Bills
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by bill number or customer name"
// @Param customerId query string false "Filter by client" format(uuid)
// @Param paymentStatus query string false "Filter by payment status" Enums(UNPAID, PARTIAL, PAID)
// @Param sortBy query string false "Sort field" Enums(billDate, billNumber, totalAmount, paymentStatus, createdAt, updatedAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.BillDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /bills [get]
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.BillSchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	result, err := h.billService.List(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list bills")
		return
	}

	respondList(w, result)
}

// Create godoc
// @Summary Create bill
// @Description Stores a bill with derived totals and links the sites it covers.
// @Tags Bills
// @Accept json
// @Produce json
// @Param request body domain.CreateBillRequest true "Bill data"
// @Success 201 {object} domain.Response{data=domain.BillDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Bill number already exists"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /bills [post]
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBillRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	bill, err := h.billService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create bill")
		return
	}

	respondSuccess(w, http.StatusCreated, bill)
}

// GetByID godoc
// @Summary Get bill by ID
// @Description Returns one bill with its customer and site summaries.
// @Tags Bills
// @Produce json
// @Param id path string true "Bill ID" format(uuid)
// @Success 200 {object} domain.Response{data=domain.BillDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /bills/{id} [get]
func (h *BillHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	bill, err := h.billService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get bill")
		return
	}

	respondSuccess(w, http.StatusOK, bill)
}

// Update godoc
// @Summary Update bill
// @Description Applies a partial update and re-derives totals and site statuses.
// @Tags Bills
// @Accept json
// @Produce json
// @Param id path string true "Bill ID" format(uuid)
// @Param request body domain.UpdateBillRequest true "Fields to change"
// @Success 200 {object} domain.Response{data=domain.BillDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Bill number already exists"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /bills/{id} [put]
func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateBillRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	bill, err := h.billService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update bill")
		return
	}

	respondSuccess(w, http.StatusOK, bill)
}

// Delete godoc
// @Summary Delete bill
// @Description Removes a bill and resets the sites it covered.
// @Tags Bills
// @Produce json
// @Param id path string true "Bill ID" format(uuid)
// @Success 200 {object} domain.Response
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /bills/{id} [delete]
func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.billService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete bill")
		return
	}

	respondMessage(w, "Bill deleted successfully")
}

// NextNumber godoc
// @Summary Suggest next bill number
// @Description Suggests the next bill number.
// @Tags Bills
// @Produce json
// @Success 200 {object} domain.Response{data=domain.NextBillNumberDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /bills/next-number [get]
func (h *BillHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	next, err := h.billService.NextNumber(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "suggest bill number")
		return
	}

	respondSuccess(w, http.StatusOK, next)
}

// Export godoc
// @Summary Export bills workbook
// @Description Returns every bill matching the list filters as a workbook.
// @Tags Bills
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Search by bill number or customer name"
// @Param customerId query string false "Filter by client" format(uuid)
// @Param paymentStatus query string false "Filter by payment status" Enums(UNPAID, PARTIAL, PAID)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {file} file "xlsx workbook"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /bills/export [get]
func (h *BillHandler) Export(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.BillSchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	buf, err := h.exportService.BillsWorkbook(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "export bills")
		return
	}

	respondWorkbook(w, "bills", buf)
}
